package core

import (
	"testing"
)

func TestResolveField(t *testing.T) {
	tests := []struct {
		name    string
		aliases []string
		headers []string
		values  []string
		want    string
		wantOK  bool
	}{
		{
			name:    "exact match",
			aliases: []string{"Order ID"},
			headers: []string{"Product", "Order ID"},
			values:  []string{"Caneca", "A1"},
			want:    "A1",
			wantOK:  true,
		},
		{
			name:    "trailing space and hyphen are ignored",
			aliases: AliasesFor(FieldSubID),
			headers: []string{"Order ID", "Sub-ID "},
			values:  []string{"A1", "insta_01"},
			want:    "insta_01",
			wantOK:  true,
		},
		{
			name:    "underscore and case are ignored",
			aliases: []string{"Sub ID"},
			headers: []string{"SUB_id"},
			values:  []string{"x"},
			want:    "x",
			wantOK:  true,
		},
		{
			name:    "contains match when no exact match",
			aliases: []string{"Cliques"},
			headers: []string{"Cliques no produto"},
			values:  []string{"12"},
			want:    "12",
			wantOK:  true,
		},
		{
			name:    "exact match of a later header beats contains match of an earlier one",
			aliases: []string{"Total"},
			headers: []string{"Total do pedido", "Total"},
			values:  []string{"10", "20"},
			want:    "20",
			wantOK:  true,
		},
		{
			name:    "earlier alias wins over later alias",
			aliases: []string{"Receita Total", "Valor"},
			headers: []string{"Valor", "Receita Total"},
			values:  []string{"1,00", "2,00"},
			want:    "2,00",
			wantOK:  true,
		},
		{
			name:    "blank matched cell does not fall through",
			aliases: []string{"Receita Total", "Valor"},
			headers: []string{"Receita Total", "Valor"},
			values:  []string{"  ", "5,00"},
			wantOK:  false,
		},
		{
			name:    "no alias matches",
			aliases: []string{"Order ID"},
			headers: []string{"Produto", "Preço"},
			values:  []string{"x", "1"},
			wantOK:  false,
		},
		{
			name:    "short row",
			aliases: []string{"Clicks"},
			headers: []string{"Order ID", "Clicks"},
			values:  []string{"A1"},
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveField(tt.aliases, RawRow{Headers: tt.headers, Values: tt.values})
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewColumnMap(t *testing.T) {
	headers := []string{"Nº do pedido", "Total do pedido", "Hora do pedido", "Nome do Produto", "Sub_id", "Cliques"}
	cols := NewColumnMap(headers, DefaultFieldSpecs())

	want := map[Field]int{
		FieldOrderID:     0,
		FieldRevenue:     1,
		FieldDate:        2,
		FieldProductName: 3,
		FieldSubID:       4,
		FieldClicks:      5,
	}
	for f, idx := range want {
		if got := cols.Index(f); got != idx {
			t.Errorf("Index(%s) = %d, want %d", f, got, idx)
		}
	}

	m := cols.Mapping()
	if m["orderId"] != "Nº do pedido" || m["subId"] != "Sub_id" {
		t.Errorf("Mapping() = %v", m)
	}
}

func TestColumnMap_Missing(t *testing.T) {
	cols := NewColumnMap([]string{"Order ID", "Total Revenue"}, DefaultFieldSpecs())

	if got := cols.Index(FieldClicks); got != -1 {
		t.Errorf("Index(clicks) = %d, want -1", got)
	}
	if _, ok := cols.Header(FieldSubID); ok {
		t.Error("Header(subId) should be unresolved")
	}

	missing := missingFields(cols)
	want := []string{"date", "productName", "subId", "clicks"}
	if len(missing) != len(want) {
		t.Fatalf("missingFields = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missingFields[%d] = %q, want %q", i, missing[i], want[i])
		}
	}
}

func TestDefaultFieldSpecsReturnsCopy(t *testing.T) {
	specs := DefaultFieldSpecs()
	specs[0].Aliases[0] = "mutated"

	if AliasesFor(FieldOrderID)[0] == "mutated" {
		t.Error("mutating the returned specs changed the built-in table")
	}
}
