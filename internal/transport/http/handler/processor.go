package handler

import (
	"net/http"

	"github.com/pocketledger/alerts/internal/application/processor"
)

// ProcessorHandler exposes the scheduled processor's lease state and last
// run counters.
type ProcessorHandler struct {
	proc *processor.Processor
}

func NewProcessorHandler(proc *processor.Processor) *ProcessorHandler {
	return &ProcessorHandler{proc: proc}
}

func (h *ProcessorHandler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.proc.Status())
}
