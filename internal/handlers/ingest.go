// internal/handlers/ingest.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/toynews-backend/internal/ingest"
	"github.com/javajoker/toynews-backend/internal/mappers"
	"github.com/javajoker/toynews-backend/internal/utils"
)

type IngestHandler struct {
	orchestrator *ingest.Orchestrator
}

func NewIngestHandler(orchestrator *ingest.Orchestrator) *IngestHandler {
	return &IngestHandler{orchestrator: orchestrator}
}

type ingestRequest struct {
	Records []map[string]interface{} `json:"records" validate:"required,min=1,max=500"`
}

type ingestSummary struct {
	Received int `json:"received"`
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Dropped  int `json:"dropped"`
	Notified int `json:"notified"`
}

// IngestRecords accepts a batch of tagged raw records from a crawler and
// runs each through the ingestion pipeline.
func (h *IngestHandler) IngestRecords(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", err.Error())
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.BadRequestResponse(c, "validation failed", err.Error())
		return
	}

	records := make([]mappers.RawRecord, len(req.Records))
	for i, r := range req.Records {
		records[i] = mappers.RawRecord(r)
	}

	results := h.orchestrator.IngestBatch(c.Request.Context(), records)

	summary := ingestSummary{Received: len(results)}
	for _, res := range results {
		switch {
		case res.Dropped:
			summary.Dropped++
		case res.IsNew:
			summary.Created++
		case !res.Changed.IsEmpty():
			summary.Updated++
		}
		if res.Notified {
			summary.Notified++
		}
	}

	utils.SuccessResponseWithMeta(c, results, summary)
}
