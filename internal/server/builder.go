package server

import (
	"context"
	"sync"
	"time"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
)

// DefaultStageDelay is the pause between simulated build stages.
const DefaultStageDelay = 2 * time.Second

// Derived-counter estimates per ingested document.
const (
	chunksPerDocument = 3
	nodesPerDocument  = 5
	edgesPerDocument  = 8
	docsPerTable      = 4
)

// Builder runs the simulated asynchronous build pipeline. Each triggered
// build is one goroutine advancing the fabric through the stage order,
// persisting every transition so clients polling the list observe them.
type Builder struct {
	fabrics    driven.FabricStore
	log        *Logger
	stageDelay time.Duration

	mu      sync.Mutex
	wg      sync.WaitGroup
	active  map[string]struct{}
	closing bool
}

// NewBuilder creates a build pipeline backed by the fabric store.
// A zero stageDelay uses the default.
func NewBuilder(fabrics driven.FabricStore, log *Logger, stageDelay time.Duration) *Builder {
	if stageDelay == 0 {
		stageDelay = DefaultStageDelay
	}
	return &Builder{
		fabrics:    fabrics,
		log:        log.With("component", "builder"),
		stageDelay: stageDelay,
		active:     make(map[string]struct{}),
	}
}

// Start begins a build for the fabric. The fabric is moved to Ingesting
// synchronously so the trigger response already reflects the transition;
// the remaining stages advance in the background.
func (b *Builder) Start(ctx context.Context, fabric *domain.Fabric) error {
	b.mu.Lock()
	if b.closing {
		b.mu.Unlock()
		return &domain.BuildTriggerError{
			FabricID: fabric.ID,
			Message:  "Server is shutting down",
		}
	}
	if _, running := b.active[fabric.ID]; running {
		b.mu.Unlock()
		return &domain.BuildTriggerError{
			FabricID: fabric.ID,
			Message:  "A build is already in progress for this fabric",
		}
	}
	b.active[fabric.ID] = struct{}{}
	b.wg.Add(1)
	b.mu.Unlock()

	fabric.Status = domain.StatusIngesting
	fabric.Error = ""
	if err := b.fabrics.Save(ctx, *fabric); err != nil {
		b.finish(fabric.ID)
		return err
	}

	go b.run(*fabric)
	return nil
}

// Active reports whether a build is currently running for the fabric.
func (b *Builder) Active(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, running := b.active[id]
	return running
}

// Close waits for all running builds to finish. New builds are refused.
func (b *Builder) Close() {
	b.mu.Lock()
	b.closing = true
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *Builder) finish(id string) {
	b.mu.Lock()
	delete(b.active, id)
	b.wg.Done()
	b.mu.Unlock()
}

// run advances the fabric through the remaining stages. It owns the
// fabric row for the duration of the build; handler writes to other
// columns are lost by design, matching a backend where the pipeline is
// the sole writer during a build.
func (b *Builder) run(fabric domain.Fabric) {
	defer b.finish(fabric.ID)
	ctx := context.Background()

	docs := documentEstimate(fabric.Sources)
	if docs == 0 {
		b.fail(ctx, fabric, "No documents available for ingestion")
		return
	}

	for {
		time.Sleep(b.stageDelay)

		next, ok := fabric.Status.Next()
		if !ok {
			return
		}
		fabric.Status = next
		b.populateCounters(&fabric, docs)

		// The fabric may have been deleted mid-build; stop quietly.
		if _, err := b.fabrics.Get(ctx, fabric.ID); err != nil {
			b.log.Info("fabric vanished mid-build", "fabric_id", fabric.ID)
			return
		}
		if err := b.fabrics.Save(ctx, fabric); err != nil {
			b.log.Error("persisting build stage failed", "fabric_id", fabric.ID, "error", err)
			return
		}
		b.log.Info("build stage complete", "fabric_id", fabric.ID, "status", fabric.Status)

		if fabric.Status.IsTerminal() {
			return
		}
	}
}

// fail moves the fabric to Error with a stored reason.
func (b *Builder) fail(ctx context.Context, fabric domain.Fabric, reason string) {
	fabric.Status = domain.StatusError
	fabric.Error = reason
	if err := b.fabrics.Save(ctx, fabric); err != nil {
		b.log.Error("persisting build failure failed", "fabric_id", fabric.ID, "error", err)
		return
	}
	b.log.Warn("build failed", "fabric_id", fabric.ID, "reason", reason)
}

// populateCounters fills in the derived counters as stages complete.
// Counters appear only once the corresponding stage has run.
func (b *Builder) populateCounters(fabric *domain.Fabric, docs int) {
	switch fabric.Status {
	case domain.StatusChunking:
		fabric.DocumentsCount = intRef(docs)
	case domain.StatusVectorizing:
		fabric.ChunksCount = intRef(docs * chunksPerDocument)
	case domain.StatusReady:
		fabric.GraphNodes = intRef(docs * nodesPerDocument)
		fabric.GraphEdges = intRef(docs * edgesPerDocument)
	}
}

// documentEstimate sizes the ingestion for the configured source.
func documentEstimate(sources domain.SourceConfig) int {
	switch sources.Primary() {
	case domain.SourceTypeUploads:
		return len(sources.Uploads.FileNames)
	case domain.SourceTypeServiceNow:
		return len(sources.ServiceNow.Tables) * docsPerTable
	case domain.SourceTypeSharePoint:
		return docsPerTable
	default:
		return 0
	}
}

func intRef(n int) *int { return &n }
