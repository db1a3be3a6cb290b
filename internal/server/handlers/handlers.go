package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jimelj/machine-scheduler/internal/config"
	"github.com/jimelj/machine-scheduler/internal/exporter"
	"github.com/jimelj/machine-scheduler/internal/maildate"
	"github.com/jimelj/machine-scheduler/internal/model"
	"github.com/jimelj/machine-scheduler/internal/parser"
	"github.com/jimelj/machine-scheduler/internal/scheduler"
)

// maxUploadSize caps pick-list uploads at 16MB.
const maxUploadSize = 16 * 1024 * 1024

// Handlers holds the API handlers and the per-process export cache.
type Handlers struct {
	cfg      *config.AppConfig
	dataDir  string
	exporter *exporter.Exporter

	// Generated workbooks, keyed by export ID, held until downloaded.
	exports   map[string][]byte
	exportsMu sync.RWMutex
}

// NewHandlers creates the handler set.
func NewHandlers(cfg *config.AppConfig, dataDir string) *Handlers {
	return &Handlers{
		cfg:      cfg,
		dataDir:  dataDir,
		exporter: exporter.NewExporter(),
		exports:  make(map[string][]byte),
	}
}

// Response is the uniform JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	success(c, gin.H{"status": "ok"})
}

// Schedule accepts a pick-list upload and returns the computed schedule.
//
// Multipart form: "file" (.pdf or .txt extracted text, max 16MB), optional
// "machines" (default from config) and "method" (by_store or by_zipcode).
func (h *Handlers) Schedule(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		errorResponse(c, 1001, "please upload a pick list file")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		errorResponse(c, 1003, "file too large, maximum is 16MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".txt" {
		errorResponse(c, 1002, "only .pdf and .txt files are supported")
		return
	}

	machines, method, err := h.schedulingParams(c)
	if err != nil {
		errorResponse(c, 1001, err.Error())
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		errorResponse(c, 1002, "failed to read file")
		return
	}

	rawText := string(content)
	if ext == ".pdf" {
		rawText, err = parser.ExtractPDFTextBytes(content)
		if err != nil {
			errorResponse(c, 1002, "failed to extract text from pdf: "+err.Error())
			return
		}
	}

	records := parser.ParsePickLists(rawText)
	dates := maildate.Load(h.cfg.Data.MailDatesFile, h.dataDir, ".")

	engine, err := scheduler.New(method, machines)
	if err != nil {
		errorResponse(c, 1001, err.Error())
		return
	}

	sched, err := engine.Run(records, dates)
	if err != nil {
		errorResponse(c, 2001, "scheduling failed: "+err.Error())
		return
	}

	workbook, err := h.exporter.Export(sched)
	if err != nil {
		errorResponse(c, 2002, "failed to build report: "+err.Error())
		return
	}

	exportID := uuid.New().String()
	h.exportsMu.Lock()
	h.exports[exportID] = workbook
	h.exportsMu.Unlock()

	success(c, gin.H{
		"schedule":        sched,
		"export_id":       exportID,
		"export_filename": exporter.ReportFileName,
	})
}

// DownloadExport streams a previously generated workbook.
func (h *Handlers) DownloadExport(c *gin.Context) {
	exportID := c.Param("id")

	h.exportsMu.RLock()
	workbook, ok := h.exports[exportID]
	h.exportsMu.RUnlock()

	if !ok {
		errorResponse(c, 3001, "export not found")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exporter.ReportFileName))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		workbook)
}

// schedulingParams reads machines/method from the form, falling back to the
// configured defaults, and validates both before the engine runs.
func (h *Handlers) schedulingParams(c *gin.Context) (int, model.Method, error) {
	machines := h.cfg.Scheduler.Machines
	if v := c.PostForm("machines"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, "", fmt.Errorf("invalid machine count %q", v)
		}
		machines = n
	}
	if machines < 1 {
		return 0, "", fmt.Errorf("machine count must be at least 1")
	}

	method := model.Method(h.cfg.Scheduler.Method)
	if v := c.PostForm("method"); v != "" {
		method = model.Method(v)
	}
	if !method.Valid() {
		return 0, "", fmt.Errorf("unknown scheduling method %q", method)
	}

	return machines, method, nil
}
