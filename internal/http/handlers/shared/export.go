package shared

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/export"
	"github.com/desbrava-pizza/internal/http/response"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// CSVWriter CSV 方言写出函数
type CSVWriter func(w io.Writer, table export.Table) error

// ExportFile 一次导出的参数
type ExportFile struct {
	BaseName string
	Sheet    string
	Table    export.Table
	CSV      CSVWriter
}

// ResolveExportFormat 读取 ?format=，缺省为 csv
func ResolveExportFormat(c *gin.Context) (string, bool) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", constants.ExportFormatCSV)))
	switch format {
	case constants.ExportFormatCSV, constants.ExportFormatXLSX:
		return format, true
	default:
		RespondError(c, response.CodeBadRequest, "error.export_format_invalid", nil)
		return "", false
	}
}

// WriteExport 按格式渲染表格并作为附件返回
func WriteExport(c *gin.Context, format string, file ExportFile) {
	var buf bytes.Buffer
	var err error
	contentType := contentTypeCSV
	switch format {
	case constants.ExportFormatXLSX:
		contentType = contentTypeXLSX
		err = export.WriteXLSX(&buf, file.Sheet, file.Table)
	default:
		format = constants.ExportFormatCSV
		writer := file.CSV
		if writer == nil {
			writer = export.WritePlainCSV
		}
		err = writer(&buf, file.Table)
	}
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			RespondError(c, response.CodeBadRequest, "error.nothing_to_export", nil)
			return
		}
		RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	filename := fmt.Sprintf("%s_%s.%s", file.BaseName, time.Now().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
