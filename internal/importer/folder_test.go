package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonMunkholm/InstaDash/internal/config"
	"github.com/JonMunkholm/InstaDash/internal/core"
)

const header = "ID do Pedido,Receita Total,Data do Pedido,Nome do Produto\n"

func newService(t *testing.T) (*core.Service, *core.MemoryStore) {
	t.Helper()
	store := core.NewMemoryStore()
	svc, err := core.NewService(store, &config.Config{
		Upload: config.UploadConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 1,
			MaxWaitTime:   time.Second,
			BatchSize:     100,
			Timeout:       10 * time.Second,
			Encoding:      "auto",
			PreviewRows:   5,
		},
	}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFolderRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_junho.csv", header+"ORD2,\"20,00\",02/06/2024,Caneca\nORD3,\"30,00\",03/06/2024,Caneca\n")
	writeFile(t, dir, "a_maio.csv", header+"ORD1,\"10,00\",01/05/2024,Caneca\n")
	writeFile(t, dir, "c_vazio.csv", header+",,,\n")
	writeFile(t, dir, "notas.md", "not an export")
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	svc, store := newService(t)
	f := &Folder{Service: svc, UserID: "u1", Root: dir}

	results, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var names []string
	for _, r := range results {
		names = append(names, r.FileName)
	}
	want := []string{"a_maio.csv", "b_junho.csv", "c_vazio.csv"}
	if len(names) != len(want) {
		t.Fatalf("files = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if results[2].Err == nil || !errors.Is(results[2].Err, core.ErrEmptyBatch) {
		t.Errorf("c_vazio.csv error = %v, want ErrEmptyBatch", results[2].Err)
	}
	if results[0].Result.BatchID == results[1].Result.BatchID {
		t.Error("each file should get its own batch")
	}

	imported, total, failed := Totals(results)
	if imported != 3 || total != 3 || failed != 1 {
		t.Errorf("Totals = (%d, %d, %d), want (3, 3, 1)", imported, total, failed)
	}

	sales, err := store.QuerySales(context.Background(), "u1", core.SalesFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 3 {
		t.Errorf("stored sales = %d, want 3", len(sales))
	}
}

func TestFolderRun_StopOnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", header+",,,\n")
	writeFile(t, dir, "b.csv", header+"ORD1,\"10,00\",01/05/2024,Caneca\n")

	svc, _ := newService(t)
	f := &Folder{Service: svc, UserID: "u1", Root: dir, StopOnError: true}

	results, err := f.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1 (stopped after first file)", len(results))
	}
}

func TestFolderRun_MissingDir(t *testing.T) {
	svc, _ := newService(t)
	f := &Folder{Service: svc, UserID: "u1", Root: filepath.Join(t.TempDir(), "missing")}
	if _, err := f.Run(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFolderRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", header+"ORD1,\"10,00\",01/05/2024,Caneca\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc, _ := newService(t)
	f := &Folder{Service: svc, UserID: "u1", Root: dir}
	results, err := f.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestIsExport(t *testing.T) {
	tests := map[string]bool{
		"vendas.csv":  true,
		"VENDAS.CSV":  true,
		"export.xlsx": true,
		"export.txt":  true,
		"readme.md":   false,
		"archive.zip": false,
	}
	for name, want := range tests {
		if got := isExport(name); got != want {
			t.Errorf("isExport(%q) = %v, want %v", name, got, want)
		}
	}
}
