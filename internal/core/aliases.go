package core

// Field identifies a semantic column of a sales export.
type Field int

const (
	FieldOrderID Field = iota
	FieldRevenue
	FieldDate
	FieldProductName
	FieldSubID
	FieldClicks
)

var fieldNames = [...]string{
	FieldOrderID:     "orderId",
	FieldRevenue:     "revenue",
	FieldDate:        "date",
	FieldProductName: "productName",
	FieldSubID:       "subId",
	FieldClicks:      "clicks",
}

func (f Field) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return "unknown"
}

// FieldSpec lists the header aliases tried for one field, most preferred first.
type FieldSpec struct {
	Field   Field
	Aliases []string
}

// defaultFieldSpecs is the alias table for the platform's export variants
// (Portuguese and English report headers). Order within each list is the
// lookup preference.
var defaultFieldSpecs = []FieldSpec{
	{
		Field:   FieldOrderID,
		Aliases: []string{"ID do Pedido", "Order ID", "Nº do pedido", "Número do pedido", "Referência", "Order No."},
	},
	{
		Field:   FieldRevenue,
		Aliases: []string{"Receita Total", "Total Revenue", "Preço Original", "Total do pedido", "Valor", "Preço", "Order Amount", "Total"},
	},
	{
		Field:   FieldDate,
		Aliases: []string{"Data do Pedido", "Order Creation Date", "Data de criação do pedido", "Hora do pedido", "Data", "Order Time"},
	},
	{
		Field:   FieldProductName,
		Aliases: []string{"Nome do Produto", "Product Name", "Nome", "Descrição do produto", "Product"},
	},
	{
		Field:   FieldSubID,
		Aliases: []string{"Sub ID", "Sub-ID", "Sub_ID", "Subid"},
	},
	{
		Field: FieldClicks,
		Aliases: []string{
			"Cliques no produto", "Cliques", "Clicks", "Número de cliques", "Visualizações de página",
			"Cliques gerados pelos links promocionais do afiliado", "Product Clicks", "Item Clicks",
		},
	},
}

// DefaultFieldSpecs returns a copy of the built-in alias table.
func DefaultFieldSpecs() []FieldSpec {
	out := make([]FieldSpec, len(defaultFieldSpecs))
	for i, spec := range defaultFieldSpecs {
		out[i] = FieldSpec{
			Field:   spec.Field,
			Aliases: append([]string(nil), spec.Aliases...),
		}
	}
	return out
}

// AliasesFor returns a copy of the alias list for f.
func AliasesFor(f Field) []string {
	for _, spec := range defaultFieldSpecs {
		if spec.Field == f {
			return append([]string(nil), spec.Aliases...)
		}
	}
	return nil
}
