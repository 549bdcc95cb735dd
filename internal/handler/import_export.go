package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/importer"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/middleware"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
)

const maxUploadBytes = 10 << 20

type ImportExportHandler struct {
	Importer *importer.Importer
	Store    *store.Store
	Log      *zap.Logger
}

func NewImportExportHandler(im *importer.Importer, s *store.Store, log *zap.Logger) *ImportExportHandler {
	return &ImportExportHandler{Importer: im, Store: s, Log: log}
}

// upload returns the multipart "file" field, or the raw body when the
// request is not multipart.
func upload(c *gin.Context) (io.ReadCloser, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, apperr.Validation("file", "missing upload: %v", err)
		}
		return fh.Open()
	}
	return c.Request.Body, nil
}

func (h *ImportExportHandler) doImport(c *gin.Context, xlsx bool) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	r, err := upload(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	defer r.Close()

	opts := importer.Options{
		CreatedBy:    middleware.Subject(c),
		AllOrNothing: c.Query("all_or_nothing") == "true",
	}
	var res importer.Result
	if xlsx {
		res, err = h.Importer.ImportXLSX(c.Request.Context(), tenantID, r, opts)
	} else {
		res, err = h.Importer.ImportCSV(c.Request.Context(), tenantID, r, opts)
	}
	if err != nil && res.Failed == 0 {
		fail(c, h.Log, err)
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    util.CodeInvalidParam,
			"message": err.Error(),
			"data":    res,
		})
		return
	}
	util.Success(c, util.Response{"result": res})
}

func (h *ImportExportHandler) ImportCSV(c *gin.Context)  { h.doImport(c, false) }
func (h *ImportExportHandler) ImportXLSX(c *gin.Context) { h.doImport(c, true) }

// ExportCSV streams the filtered transaction view as CSV.
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	f, err := filterFromQuery(c, h.Store)
	if err != nil {
		fail(c, h.Log, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", importer.FileName("csv")))
	if err := h.Importer.ExportCSV(c.Request.Context(), tenantID, f, c.Writer); err != nil {
		// Headers are gone once rows were written; only log.
		h.Log.Error("export csv", zap.String("tenant", tenantID), zap.Error(err))
		_ = c.Error(err)
	}
}

// ExportXLSX builds the workbook in memory before sending it, so errors
// still produce a proper response.
func (h *ImportExportHandler) ExportXLSX(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	f, err := filterFromQuery(c, h.Store)
	if err != nil {
		fail(c, h.Log, err)
		return
	}

	var buf bytes.Buffer
	if err := h.Importer.ExportXLSX(c.Request.Context(), tenantID, f, &buf); err != nil {
		fail(c, h.Log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", importer.FileName("xlsx")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
