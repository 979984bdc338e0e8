package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/joimopro25-dot/myimomate-crm-sub000/config"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/analysis"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/database"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/geometry"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/models"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/queue"
)

type Handler struct {
	db       *database.Database
	analyzer *analysis.Analyzer
	queue    *queue.DealQueue
	config   *config.Config
	logger   *logrus.Logger
}

// BatchRequest is the body of a bulk analysis request
type BatchRequest struct {
	Deals []models.DealRequest `json:"deals" binding:"required"`
}

func NewHandler(db *database.Database, analyzer *analysis.Analyzer, q *queue.DealQueue, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if analyzer == nil {
		analyzer = analysis.NewAnalyzer(analysis.DefaultAssumptions(), logger)
	}

	return &Handler{
		db:       db,
		analyzer: analyzer,
		queue:    q,
		config:   cfg,
		logger:   logger,
	}
}

// analyzerFor picks the analyzer for a request, honouring ?tax_profile=
func (h *Handler) analyzerFor(c *gin.Context) (*analysis.Analyzer, error) {
	name := c.Query("tax_profile")
	if name == "" {
		return h.analyzer, nil
	}
	profile := config.GetTaxProfileByName(name)
	if profile == nil {
		return nil, config.ErrTaxProfileNotFound
	}
	return h.analyzer.WithAssumptions(profile.Apply(h.analyzer.Assumptions())), nil
}

func (h *Handler) Analyze(c *gin.Context) {
	var input analysis.InvestmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.WithError(err).Error("Invalid analysis request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	analyzer, err := h.analyzerFor(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tax profile not found"})
		return
	}

	c.JSON(http.StatusOK, analyzer.Analyze(input))
}

func (h *Handler) CreateDeal(c *gin.Context) {
	var req models.DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid deal request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	analyzer, err := h.analyzerFor(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tax profile not found"})
		return
	}

	deal := models.NewDeal(req)
	deal.ApplyResult(analyzer.Analyze(req.Input))
	if err := h.db.CreateDeal(deal); err != nil {
		h.logger.WithError(err).Error("Failed to save deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save deal"})
		return
	}

	c.JSON(http.StatusCreated, deal)
}

func (h *Handler) GetAllDeals(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	deals, err := h.db.ListDeals(filters)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get deals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get deals"})
		return
	}

	c.JSON(http.StatusOK, deals)
}

func (h *Handler) GetDeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deal, err := h.db.GetDeal(id)
	if err != nil {
		h.dealError(c, err, "Failed to get deal")
		return
	}

	c.JSON(http.StatusOK, deal)
}

// UpdateDeal replaces a deal's details and re-runs the analysis
func (h *Handler) UpdateDeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid deal request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	analyzer, err := h.analyzerFor(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tax profile not found"})
		return
	}

	existing, err := h.db.GetDeal(id)
	if err != nil {
		h.dealError(c, err, "Failed to get deal")
		return
	}

	deal := models.NewDeal(req)
	deal.ID = existing.ID
	deal.CreatedAt = existing.CreatedAt
	deal.ApplyResult(analyzer.Analyze(req.Input))
	if err := h.db.UpdateDeal(deal); err != nil {
		h.dealError(c, err, "Failed to update deal")
		return
	}

	c.JSON(http.StatusOK, deal)
}

func (h *Handler) DeleteDeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.db.DeleteDeal(id); err != nil {
		h.dealError(c, err, "Failed to delete deal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deal deleted successfully"})
}

// QueueDeals hands a batch of deals to the background processor
func (h *Handler) QueueDeals(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid batch request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.Deals) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one deal is required"})
		return
	}
	if h.queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Batch processing is unavailable"})
		return
	}
	if limit := h.maxBatchSize(); limit > 0 && len(req.Deals) > limit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Batch exceeds the maximum of " + strconv.Itoa(limit) + " deals"})
		return
	}

	batch := make([]*models.Deal, 0, len(req.Deals))
	for _, r := range req.Deals {
		batch = append(batch, models.NewDeal(r))
	}

	if err := h.queue.Push(batch); err != nil {
		h.logger.WithError(err).WithField("batch_size", len(batch)).Warn("Failed to queue deals")
		if errors.Is(err, queue.ErrQueueFull) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Queue is full, try again later"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Batch processing is unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "queued",
		"count":  len(batch),
	})
}

// GetDealMap returns the located deals as a GeoJSON FeatureCollection
func (h *Handler) GetDealMap(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	deals, err := h.db.ListLocatedDeals(filters)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get deals for map")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get deals"})
		return
	}

	coverage, _ := strconv.ParseBool(c.DefaultQuery("coverage", "false"))
	c.JSON(http.StatusOK, geometry.DealMap(deals, coverage))
}

func (h *Handler) GetDealStats(c *gin.Context) {
	stats, err := h.db.GetDealStats()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get deal stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get deal stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, config.SupportedStrategies)
}

func (h *Handler) GetTaxProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, config.GetTaxProfiles())
}

// UpdateTaxProfile creates or replaces a tax profile
func (h *Handler) UpdateTaxProfile(c *gin.Context) {
	var profile config.TaxProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.logger.WithError(err).Error("Invalid tax profile")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := profile.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.UpdateTaxProfile(profile); err != nil {
		h.logger.WithError(err).WithField("profile", profile.Name).Error("Failed to save tax profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save tax profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) DeleteTaxProfile(c *gin.Context) {
	name := c.Param("name")
	if err := config.DeleteTaxProfile(name); err != nil {
		if errors.Is(err, config.ErrTaxProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tax profile not found"})
			return
		}
		h.logger.WithError(err).WithField("profile", name).Error("Failed to delete tax profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tax profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tax profile deleted successfully"})
}

func (h *Handler) maxBatchSize() int {
	if h.config == nil {
		return 0
	}
	return h.config.BatchProcessing.MaxBatchSize
}

func (h *Handler) bindFilters(c *gin.Context) (*models.DealFilters, bool) {
	var filters models.DealFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.logger.WithError(err).Error("Failed to parse deal filters")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filters"})
		return nil, false
	}
	for _, name := range filters.Strategies {
		if config.GetStrategyByName(strings.ToLower(strings.TrimSpace(name))) == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Unknown strategy: " + name,
				"supported": config.GetStrategyNames(),
			})
			return nil, false
		}
	}
	return &filters, true
}

func (h *Handler) dealError(c *gin.Context, err error, message string) {
	if errors.Is(err, database.ErrDealNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return
	}
	h.logger.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal id"})
		return 0, false
	}
	return id, true
}
