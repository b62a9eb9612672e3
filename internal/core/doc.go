// Package core holds the sales ingestion pipeline and the reporting built on
// top of it. Nothing here knows about HTTP; the web package and tests drive
// it through [Service].
//
// # Ingestion
//
// An upload flows through these stages:
//
//  1. Decode: BOM removal and a configurable text encoding ([DecodeReader]).
//  2. Tokenize: CSV with a sniffed delimiter, or the first sheet of an XLSX.
//  3. Resolve columns once per file against the alias table ([NewColumnMap]).
//  4. Normalize each row into a [Candidate] ([NormalizeRow]).
//  5. Validate and dedupe the batch ([ValidateBatch]).
//  6. Upsert in chunks keyed by (user, order id) through a [Store].
//
// Rows that fail normalization or validation are counted in a
// [RejectionSummary] and never abort the upload. Whole-upload failures are
// returned as *[UploadError] with a [FailureKind].
//
// # Reporting
//
// [ComputeStats] is a pure fold over sales and expenses; [Service.Stats]
// supplies the rows for a [TimeWindow] and the external ad spend.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with support codes by
// [MapError].
package core
