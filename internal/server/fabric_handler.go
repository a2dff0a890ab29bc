package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
)

// Upload limits.
const (
	maxUploadBytes   = 32 << 20 // per request
	estimatedSeconds = 10       // per build stage estimate shown to users
)

// FabricHandler serves the fabric CRUD and build endpoints.
type FabricHandler struct {
	log     *Logger
	fabrics driven.FabricStore
	builder *Builder
	creds   CredentialSource
}

// NewFabricHandler creates the fabric endpoint handler.
func NewFabricHandler(log *Logger, fabrics driven.FabricStore, builder *Builder, creds CredentialSource) *FabricHandler {
	return &FabricHandler{
		log:     log.With("handler", "FabricHandler"),
		fabrics: fabrics,
		builder: builder,
		creds:   creds,
	}
}

// List returns the full fabric set.
func (h *FabricHandler) List(c *gin.Context) {
	fabrics, err := h.fabrics.List(c.Request.Context())
	if err != nil {
		h.log.Error("listing fabrics failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to list fabrics")
		return
	}
	if fabrics == nil {
		fabrics = []domain.Fabric{}
	}
	c.JSON(http.StatusOK, fabrics)
}

// Get returns a single fabric.
func (h *FabricHandler) Get(c *gin.Context) {
	fabric, err := h.fabrics.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Fabric not found")
			return
		}
		h.log.Error("getting fabric failed", "fabric_id", c.Param("id"), "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to load fabric")
		return
	}
	c.JSON(http.StatusOK, fabric)
}

// Create registers a new fabric in Draft status.
func (h *FabricHandler) Create(c *gin.Context) {
	var cfg domain.FabricConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := cfg.Validate(true); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	fabric := domain.Fabric{
		ID:               uuid.NewString(),
		Name:             cfg.Name,
		Description:      cfg.Description,
		Domain:           cfg.Domain,
		Status:           domain.StatusDraft,
		Sources:          cfg.Sources,
		ChunkSize:        cfg.ChunkSize,
		ChunkOverlap:     cfg.ChunkOverlap,
		EmbeddingModel:   cfg.EmbeddingModel,
		ChromaCollection: cfg.ChromaCollection,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.fabrics.Save(c.Request.Context(), fabric); err != nil {
		h.log.Error("saving fabric failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to create fabric")
		return
	}

	h.log.Info("fabric created", "fabric_id", fabric.ID, "name", fabric.Name)
	c.JSON(http.StatusCreated, fabric)
}

// TriggerBuild starts the asynchronous build pipeline.
func (h *FabricHandler) TriggerBuild(c *gin.Context) {
	ctx := c.Request.Context()
	fabric, err := h.fabrics.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Fabric not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to load fabric")
		return
	}

	if fabric.Status.IsBuilding() {
		respondError(c, http.StatusConflict, "A build is already in progress for this fabric")
		return
	}

	// ServiceNow ingestion needs backend credentials before anything runs.
	if fabric.Sources.Primary() == domain.SourceTypeServiceNow && !h.creds.Configured() {
		respondError(c, http.StatusBadRequest, "ServiceNow credentials are not configured")
		return
	}

	if err := h.builder.Start(ctx, fabric); err != nil {
		var trigErr *domain.BuildTriggerError
		if errors.As(err, &trigErr) {
			respondError(c, http.StatusConflict, trigErr.Message)
			return
		}
		h.log.Error("starting build failed", "fabric_id", fabric.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to start build")
		return
	}

	stages := 4 // Ingesting through GraphBuilding
	c.JSON(http.StatusOK, domain.BuildAck{
		Status:        fabric.Status,
		Message:       "Build started",
		EstimatedTime: formatEstimate(stages * estimatedSeconds),
	})
}

// Upload receives documents as a multipart form and records their names
// in the fabric's uploads source.
func (h *FabricHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	fabric, err := h.fabrics.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Fabric not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to load fabric")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		respondError(c, http.StatusBadRequest, "No files provided")
		return
	}

	names := make([]string, 0, len(files))
	var total int64
	for _, fh := range files {
		total += fh.Size
		if total > maxUploadBytes {
			respondError(c, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit")
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "Unreadable file: "+fh.Filename)
			return
		}
		// Content is consumed and discarded; parsing is mocked.
		_, _ = io.Copy(io.Discard, f)
		f.Close()
		names = append(names, fh.Filename)
	}

	if fabric.Sources.Uploads == nil {
		fabric.Sources.Uploads = &domain.UploadsSource{}
	}
	fabric.Sources.Uploads.FileNames = append(fabric.Sources.Uploads.FileNames, names...)

	if err := h.fabrics.Save(ctx, *fabric); err != nil {
		h.log.Error("saving uploads failed", "fabric_id", fabric.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to record uploads")
		return
	}

	h.log.Info("documents uploaded", "fabric_id", fabric.ID, "count", len(names))
	c.JSON(http.StatusOK, domain.UploadAck{Success: true, Files: names})
}

// Delete removes the fabric and all derived data.
func (h *FabricHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.fabrics.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Fabric not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to load fabric")
		return
	}

	if err := h.fabrics.Delete(ctx, id); err != nil {
		h.log.Error("deleting fabric failed", "fabric_id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to delete fabric")
		return
	}

	h.log.Info("fabric deleted", "fabric_id", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
