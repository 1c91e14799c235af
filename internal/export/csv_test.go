package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFormatPtBR(t *testing.T) {
	cases := map[string]string{
		"0":        "0,00",
		"2":        "2,00",
		"70.5":     "70,50",
		"1234.567": "1.234,57",
		"1234567":  "1.234.567,00",
		"-987.1":   "-987,10",
		"-0.001":   "0,00",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatPtBR(decimal.RequireFromString(in)), "input %s", in)
	}
}

func TestWritePtBRCSVLocalizesNumbersAndQuotes(t *testing.T) {
	table := Table{
		Headers: []string{"codigo_pedido", "comprador", "qtd_pedida", "valor_total", "whatsapp"},
		Rows: [][]Cell{
			{Text("DP001"), Text("Silva; Maria"), Int(3), Decimal(decimal.RequireFromString("210")), Text("11987654321")},
			{Text("DP002"), Text(`Ana "Bia"`), Int(1), Text("70,5"), Text("1234")},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePtBRCSV(&buf, table))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"), "missing BOM")
	lines := strings.Split(strings.TrimPrefix(out, "\ufeff"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "codigo_pedido;comprador;qtd_pedida;valor_total;whatsapp", lines[0])
	require.Equal(t, `DP001;"Silva; Maria";3,00;210,00;11987654321`, lines[1])
	require.Equal(t, `DP002;"Ana ""Bia""";1,00;70,50;1234`, lines[2])
}

func TestWritePtBRCSVQuotesCarriageReturn(t *testing.T) {
	table := Table{Headers: []string{"nome"}, Rows: [][]Cell{{Text("a\rb")}}}
	var buf bytes.Buffer
	require.NoError(t, WritePtBRCSV(&buf, table))
	require.Contains(t, buf.String(), "\"a\rb\"")
}

func TestWritePlainCSV(t *testing.T) {
	table := Table{
		Headers: []string{"organizacao", "campanha", "qtd_pizzas", "receita"},
		Rows: [][]Cell{
			{Text("Clube, Centro"), Text("Pizza 2025"), Int(6), Text("420.00")},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePlainCSV(&buf, table))
	require.Equal(t, "organizacao,campanha,qtd_pizzas,receita\n\"Clube, Centro\",Pizza 2025,6,420.00", buf.String())
}

func TestWriteCSVRejectsEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, WritePtBRCSV(&buf, Table{Headers: []string{"a"}}), ErrNothingToExport)
	require.ErrorIs(t, WritePlainCSV(&buf, Table{}), ErrNothingToExport)
	require.Zero(t, buf.Len())
}

func TestShouldLocalizeText(t *testing.T) {
	require.True(t, shouldLocalizeText("margem_percent", "12.5"))
	require.True(t, shouldLocalizeText("QTD", "3"))
	require.False(t, shouldLocalizeText("codigo_pedido", "123"))
	require.False(t, shouldLocalizeText("valor_total", "R$ 10"))
}
