package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"wajba-be/internal/dashboard"
	"wajba-be/internal/driver"
	"wajba-be/internal/geo"
	"wajba-be/internal/middleware"
	"wajba-be/internal/offer"
	"wajba-be/internal/order"
	"wajba-be/internal/restaurant"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

type Handler struct {
	orders      order.Service
	drivers     driver.Service
	offers      offer.Service
	dashboard   dashboard.Service
	restaurants restaurant.Repository
	validate    *validatorv10.Validate
}

func New(orders order.Service, drivers driver.Service, offers offer.Service, dash dashboard.Service, restaurants restaurant.Repository) *Handler {
	return &Handler{
		orders:      orders,
		drivers:     drivers,
		offers:      offers,
		dashboard:   dash,
		restaurants: restaurants,
		validate:    validatorv10.New(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/restaurants", middleware.RateLimit(false), h.listRestaurants)
	api.POST("/orders", middleware.RateLimit(false), h.createOrder)
	api.GET("/orders", middleware.RateLimit(false), h.listOrders)
	api.GET("/orders/:id", middleware.RateLimit(false), h.getOrder)
	api.POST("/orders/:id/cancel", middleware.RateLimit(false), h.cancelOrder)
	api.POST("/offers/:code/redeem", middleware.RateLimit(false), h.redeemOffer)

	drv := api.Group("/driver", middleware.RequireRole(middleware.RoleDriver))
	drv.GET("/orders/nearby", middleware.RateLimit(false), h.nearbyOrders)
	drv.POST("/orders/:id/accept", middleware.RateLimit(true), h.acceptOrder)
	drv.POST("/orders/:id/pickup", middleware.RateLimit(true), h.pickupOrder)
	drv.POST("/orders/:id/deliver", middleware.RateLimit(true), h.deliverOrder)
	drv.GET("/earnings", middleware.RateLimit(false), h.driverEarnings)
	drv.PUT("/status", middleware.RateLimit(false), h.setDriverStatus)
	drv.PUT("/location", middleware.RateLimit(false), h.reportDriverLocation)

	admin := api.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
	admin.GET("/dashboard", h.dashboardStats)
	admin.PATCH("/orders/:id/status", h.updateOrderStatus)
	admin.GET("/offers", h.listOffers)
	admin.POST("/offers", h.createOffer)
	admin.PUT("/offers/:code", h.updateOffer)
	admin.GET("/campaigns", h.listCampaigns)
	admin.POST("/campaigns", h.createCampaign)
}

// writeError maps domain errors onto stable HTTP codes for the apps.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, driver.ErrDriverNotFound),
		errors.Is(err, offer.ErrOfferNotFound),
		errors.Is(err, restaurant.ErrRestaurantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "msg": err.Error()})
	case errors.Is(err, order.ErrAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": "already_assigned"})
	case errors.Is(err, driver.ErrUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "driver_unavailable"})
	case errors.Is(err, order.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_transition"})
	case errors.Is(err, order.ErrNotAssignedToDriver):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_assigned"})
	case errors.Is(err, offer.ErrCodeTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "code_taken"})
	case errors.Is(err, offer.ErrInvalidWindow), errors.Is(err, offer.ErrInvalidCode),
		errors.Is(err, driver.ErrInvalidStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_input", "msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	customerID, _ := middleware.UserIDFrom(c)

	items := make([]order.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.Item{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Options:   it.Options,
		})
	}

	o, err := h.orders.Create(c.Request.Context(), order.CreateInput{
		CustomerID:       customerID,
		RestaurantID:     req.RestaurantID,
		DeliveryAddress:  req.DeliveryAddress,
		DeliveryLocation: req.DeliveryLocation,
		Items:            items,
		PaymentMethod:    order.PaymentMethod(req.PaymentMethod),
		CustomerNotes:    req.CustomerNotes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) listOrders(c *gin.Context) {
	var filter order.Filter
	if s := c.Query("status"); s != "" {
		status := order.Status(s)
		filter.Status = &status
	}
	if s := c.Query("customer_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.CustomerID = &id
		}
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 32)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 32)

	orders, err := h.orders.List(c.Request.Context(), &filter, int32(limit), int32(offset))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) cancelOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.orders.Cancel(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *Handler) nearbyOrders(c *gin.Context) {
	driverID, ok := middleware.DriverIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_location"})
		return
	}

	candidates, err := h.orders.NearbyForDriver(c.Request.Context(), driverID, geo.Point{Lat: lat, Lng: lng})
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]candidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, candidateResponse{
			Order:             toOrderResponse(cand.Order),
			DistanceKm:        math.Round(cand.DistanceKm*100) / 100,
			EstimatedEarnings: cand.EstimatedEarnings,
		})
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *Handler) acceptOrder(c *gin.Context) {
	driverID, ok := middleware.DriverIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	o, err := h.orders.Accept(c.Request.Context(), id, driverID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) pickupOrder(c *gin.Context) {
	driverID, ok := middleware.DriverIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	o, err := h.orders.MarkPickedUp(c.Request.Context(), id, driverID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) deliverOrder(c *gin.Context) {
	driverID, ok := middleware.DriverIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	o, err := h.orders.MarkDelivered(c.Request.Context(), id, driverID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) driverEarnings(c *gin.Context) {
	driverID, ok := middleware.DriverIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			from = t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			to = t
		}
	}

	earnings, err := h.drivers.Earnings(c.Request.Context(), driverID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"earnings": earnings})
}

func (h *Handler) setDriverStatus(c *gin.Context) {
	driverID, ok := middleware.DriverIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req driverStatusRequest
	if err := BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	if err := h.drivers.SetStatus(c.Request.Context(), driverID, driver.Status(req.Status)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) reportDriverLocation(c *gin.Context) {
	driverID, ok := middleware.DriverIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req driverLocationRequest
	if err := BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	if err := h.drivers.ReportLocation(c.Request.Context(), driverID, geo.Point{Lat: req.Lat, Lng: req.Lng}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listRestaurants(c *gin.Context) {
	restaurants, err := h.restaurants.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants})
}

func (h *Handler) redeemOffer(c *gin.Context) {
	var req redeemRequest
	if err := BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	discounted, err := h.offers.Redeem(c.Request.Context(), c.Param("code"), req.Total)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": req.Total, "discounted": discounted})
}

func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), id, order.Status(req.Status)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) listOffers(c *gin.Context) {
	offers, err := h.offers.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": toOfferResponses(offers)})
}

func (h *Handler) createOffer(c *gin.Context) {
	var req offerRequest
	if err := BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	o, err := h.offers.Create(c.Request.Context(), &offer.Offer{
		Code:          req.Code,
		Title:         req.Title,
		DiscountType:  offer.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOfferResponse(o))
}

func (h *Handler) updateOffer(c *gin.Context) {
	var req offerRequest
	if err := BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	o, err := h.offers.Update(c.Request.Context(), &offer.Offer{
		Code:          c.Param("code"),
		Title:         req.Title,
		DiscountType:  offer.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOfferResponse(o))
}

func (h *Handler) listCampaigns(c *gin.Context) {
	campaigns, err := h.offers.ListCampaigns(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

func (h *Handler) createCampaign(c *gin.Context) {
	var req campaignRequest
	if err := BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	camp := &offer.Campaign{
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		OfferCode: req.OfferCode,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	}
	if err := h.offers.CreateCampaign(c.Request.Context(), camp); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, camp)
}
