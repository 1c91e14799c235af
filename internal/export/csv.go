package export

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const utf8BOM = "\ufeff"

var (
	numericTextPattern = regexp.MustCompile(`^[+-]?\d+(?:[.,]\d+)?$`)
	numericKeyHints    = []string{"valor", "receita", "custo", "lucro", "margem", "preco", "ajuste", "centav", "taxa", "qtd"}
)

// dialect CSV 方言
type dialect struct {
	delimiter string
	bom       bool
	quoteOn   string
	localize  bool
}

var (
	ptBRDialect  = dialect{delimiter: ";", bom: true, quoteOn: "\";\n\r", localize: true}
	plainDialect = dialect{delimiter: ",", bom: false, quoteOn: "\",\n", localize: false}
)

// WritePtBRCSV 写出 pt-BR 风格 CSV：分号分隔、逗号小数、带 BOM 便于 Excel 打开
func WritePtBRCSV(w io.Writer, table Table) error {
	return writeCSV(w, table, ptBRDialect)
}

// WritePlainCSV 写出逗号分隔、点小数的 CSV
func WritePlainCSV(w io.Writer, table Table) error {
	return writeCSV(w, table, plainDialect)
}

func writeCSV(w io.Writer, table Table, d dialect) error {
	if table.Empty() {
		return ErrNothingToExport
	}
	buf := bufio.NewWriter(w)
	if d.bom {
		if _, err := buf.WriteString(utf8BOM); err != nil {
			return err
		}
	}

	fields := make([]string, len(table.Headers))
	for i, h := range table.Headers {
		fields[i] = d.escape(h)
	}
	if _, err := buf.WriteString(strings.Join(fields, d.delimiter)); err != nil {
		return err
	}

	for r := range table.Rows {
		for c, key := range table.Headers {
			fields[c] = d.escape(d.render(key, table.Value(r, c)))
		}
		if _, err := buf.WriteString("\n" + strings.Join(fields, d.delimiter)); err != nil {
			return err
		}
	}
	return buf.Flush()
}

func (d dialect) render(key string, cell Cell) string {
	if !d.localize {
		return cell.Raw()
	}
	if cell.IsNumeric() {
		return FormatPtBR(cell.number)
	}
	if shouldLocalizeText(key, cell.text) {
		if n, ok := parseLocalizedNumber(cell.text); ok {
			return FormatPtBR(n)
		}
	}
	return cell.text
}

func (d dialect) escape(value string) string {
	if strings.ContainsAny(value, d.quoteOn) {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// shouldLocalizeText 文本看起来是数字且列名属于金额/数量类时才本地化
func shouldLocalizeText(key, value string) bool {
	if !numericTextPattern.MatchString(strings.TrimSpace(value)) {
		return false
	}
	k := strings.ToLower(key)
	for _, hint := range numericKeyHints {
		if strings.Contains(k, hint) {
			return true
		}
	}
	return false
}

// parseLocalizedNumber 解析 "12.5" 或 "12,50"（含逗号时视为 pt-BR 写法）
func parseLocalizedNumber(value string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	n, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return n, true
}

// FormatPtBR 两位小数、逗号小数点、点号千分位，例如 1234.5 -> 1.234,50
func FormatPtBR(value decimal.Decimal) string {
	fixed := value.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart := fixed, ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart, fracPart = fixed[:idx], fixed[idx+1:]
	}

	var b strings.Builder
	if negative && strings.Trim(intPart+fracPart, "0") != "" {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
