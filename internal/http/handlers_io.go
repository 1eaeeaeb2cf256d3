package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	applog "nova/internal/log"
	"nova/internal/xlsx"
)

// maxImportSize caps uploaded workbooks at 10 MiB.
const maxImportSize = 10 << 20

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	txs := s.store.Transactions()
	filename := xlsx.Filename(time.Now())

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := xlsx.Write(w, txs); err != nil {
		s.logger.ErrorContext(r.Context(), "Export failed",
			applog.FieldOperation, applog.OpExport,
			applog.FieldError, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Report exported",
		applog.FieldOperation, applog.OpExport,
		"rows", len(txs),
		"filename", filename)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	txs, err := xlsx.Read(file)
	if err != nil {
		switch {
		case errors.Is(err, xlsx.ErrNoRows):
			// The workbook parsed but no row survived decoding. The stored
			// list is untouched.
			writeError(w, http.StatusUnprocessableEntity, "nessun dato valido")
		case errors.Is(err, xlsx.ErrUnreadable):
			writeError(w, http.StatusBadRequest, "file non leggibile")
		default:
			s.logger.ErrorContext(r.Context(), "Import failed",
				applog.FieldOperation, applog.OpImport,
				applog.FieldError, err)
			writeError(w, http.StatusInternalServerError, "errore di importazione")
		}
		return
	}

	if err := s.store.ImportTransactions(r.Context(), txs); err != nil {
		s.logger.ErrorContext(r.Context(), "Import save failed",
			applog.FieldOperation, applog.OpImport,
			applog.FieldImported, len(txs),
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "errore nel salvataggio")
		return
	}

	s.logger.InfoContext(r.Context(), "Transactions imported",
		applog.FieldOperation, applog.OpImport,
		applog.FieldImported, len(txs))
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(txs)})
}
