package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poliwatch/tramita/app/cfg"
	"github.com/poliwatch/tramita/app/database"
	"github.com/poliwatch/tramita/app/legis"
	"github.com/poliwatch/tramita/app/tasks"
)

func NewHandler(sourceCache *legis.SourceCache, sourceRepo database.SourceRepository,
	initiativeRepo database.InitiativeRepository, lawRepo database.LawRepository,
	runRepo database.RunRepository, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		sourceCache:    sourceCache,
		sourceRepo:     sourceRepo,
		initiativeRepo: initiativeRepo,
		lawRepo:        lawRepo,
		runRepo:        runRepo,
		scheduler:      scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": cfg.GetVersion(),
		"sources": h.sourceCache.GetSourceCount(),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	initiativeCount, err := h.initiativeRepo.GetInitiativeCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count initiatives"})
		return
	}

	stageCounts, err := h.initiativeRepo.GetStageCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count stages"})
		return
	}

	lawCount, err := h.lawRepo.GetLawCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count laws"})
		return
	}

	stats := gin.H{
		"initiatives": initiativeCount,
		"laws":        lawCount,
		"stages":      stageCounts,
	}

	lastRuns := gin.H{}
	for _, source := range h.sourceCache.GetSources() {
		run, err := h.runRepo.GetLatestRun(source.Name)
		if err != nil || run == nil {
			continue
		}
		lastRuns[source.Name] = gin.H{
			"id":           run.ID,
			"started_at":   run.StartedAt,
			"completed_at": run.CompletedAt,
			"initiatives":  run.InitiativeCount,
			"laws":         run.LawCount,
			"error":        run.Error,
		}
	}
	stats["last_runs"] = lastRuns

	c.JSON(http.StatusOK, stats)
}

// GetInitiative returns a single classified initiative. When a source query
// parameter is given, the response is trimmed to that source's configured
// output fields.
func (h *Handler) GetInitiative(c *gin.Context) {
	expediente := c.Param("expediente")

	initiative, err := h.initiativeRepo.GetInitiative(expediente)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load initiative"})
		return
	}
	if initiative == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "initiative not found"})
		return
	}

	edges, err := h.initiativeRepo.GetEdges(expediente)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load edges"})
		return
	}
	initiative.Edges = edges

	events, err := h.initiativeRepo.GetEvents(expediente)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	initiative.Events = events

	var fields []string
	if sourceName := c.Query("source"); sourceName != "" {
		source, err := h.sourceCache.GetSource(sourceName)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
			return
		}
		fields = source.Output.Fields
	}

	c.JSON(http.StatusOK, renderInitiative(initiative, fields))
}

func (h *Handler) GetInitiativeTimeline(c *gin.Context) {
	expediente := c.Param("expediente")

	initiative, err := h.initiativeRepo.GetInitiative(expediente)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load initiative"})
		return
	}
	if initiative == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "initiative not found"})
		return
	}

	events, err := h.initiativeRepo.GetEvents(expediente)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expediente": expediente,
		"events":     renderEvents(events),
	})
}

// GetFlows links the stored initiatives and laws of a source into complete
// legislative flows and returns them in presentation order.
func (h *Handler) GetFlows(c *gin.Context) {
	sourceName := c.Param("name")
	if _, err := h.sourceCache.GetSource(sourceName); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
		return
	}

	stored, err := h.initiativeRepo.GetInitiatives(sourceName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load initiatives"})
		return
	}

	initiatives := make([]*legis.Initiative, 0, len(stored))
	for i := range stored {
		events, err := h.initiativeRepo.GetEvents(stored[i].Expediente)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
			return
		}
		stored[i].Events = events
		initiatives = append(initiatives, &stored[i])
	}

	storedLaws, err := h.lawRepo.GetLaws(sourceName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load laws"})
		return
	}

	laws := make([]*legis.ApprovedLaw, 0, len(storedLaws))
	for i := range storedLaws {
		laws = append(laws, &storedLaws[i])
	}

	order := legis.FlowOrderPresentedDesc
	if c.Query("order") == "presented_asc" {
		order = legis.FlowOrderPresentedAsc
	}

	flows := legis.LinkFlows(initiatives, laws, order)

	responses := make([]flowResponse, 0, len(flows))
	for _, flow := range flows {
		resp := flowResponse{
			Key:         flow.Key,
			FinalStatus: flow.FinalStatus,
			Stage:       string(flow.Stage),
			Events:      renderEvents(flow.Events),
		}
		if flow.Initiative != nil {
			resp.Expediente = flow.Initiative.Expediente
			if resp.Title == "" {
				resp.Title = flow.Initiative.Subject
			}
		}
		if flow.Law != nil {
			resp.LawNumber = flow.Law.LawNumber
			resp.Title = flow.Law.Title
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, gin.H{
		"source": sourceName,
		"count":  len(responses),
		"flows":  responses,
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	sources := h.sourceCache.GetSources()

	items := make([]gin.H, 0, len(sources))
	for _, source := range sources {
		items = append(items, gin.H{
			"name":            source.Name,
			"initiatives_url": source.InitiativesURL,
			"laws_url":        source.LawsURL,
			"enabled":         source.Settings.Enabled,
			"legislature":     source.Settings.Legislature,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sources": items})
}

// APIReprocessSource enqueues a fresh ingest run for a source, bypassing its
// refresh interval.
func (h *Handler) APIReprocessSource(c *gin.Context) {
	sourceName := c.Param("name")
	source, err := h.sourceCache.GetSource(sourceName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
		return
	}
	if !source.Settings.Enabled {
		c.JSON(http.StatusConflict, gin.H{"error": "source is disabled"})
		return
	}

	h.scheduler.EnqueueTask(h.scheduler.NewIngestTask(source))

	slog.Info("Reprocess enqueued", "source", sourceName)
	c.JSON(http.StatusAccepted, gin.H{"status": "enqueued", "source": sourceName})
}

func renderInitiative(initiative *legis.Initiative, fields []string) gin.H {
	full := gin.H{
		"expediente":  initiative.Expediente,
		"type":        initiative.Type,
		"subject":     initiative.Subject,
		"author":      initiative.Author,
		"presented":   initiative.Presented,
		"qualified":   initiative.Qualified,
		"legislature": initiative.Legislature,
		"committee":   initiative.Committee,
		"category":    string(initiative.Category),
		"stage":       string(initiative.Classification.Stage),
		"step":        initiative.Classification.Step,
		"signals":     initiative.Classification.Signals,
		"events":      renderEvents(initiative.Events),
		"edges":       renderEdges(initiative.Edges),
	}
	if len(fields) == 0 {
		return full
	}

	trimmed := gin.H{}
	for _, field := range fields {
		if value, ok := full[field]; ok {
			trimmed[field] = value
		}
	}
	return trimmed
}

func renderEvents(events []legis.TimelineEvent) []eventResponse {
	responses := make([]eventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, eventResponse{
			Label:       event.Label,
			Start:       event.Start,
			End:         event.End,
			Description: event.Description,
		})
	}
	return responses
}

func renderEdges(edges []legis.RelationshipEdge) []edgeResponse {
	responses := make([]edgeResponse, 0, len(edges))
	for _, edge := range edges {
		responses = append(responses, edgeResponse{
			To:     edge.To,
			Kind:   string(edge.Kind),
			Label:  edge.Label,
			Weight: edge.Weight,
		})
	}
	return responses
}
