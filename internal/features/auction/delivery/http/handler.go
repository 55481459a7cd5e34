package http

import (
	"errors"
	"net/http"

	"auction-tool-backend/internal/features/auction/service"

	"github.com/gin-gonic/gin"
)

// AuctionHandler exposes a read-only operator view over the active auction
// set. All mutations go through the chat command layer.
type AuctionHandler struct {
	service *service.AuctionService
}

func NewAuctionHandler(svc *service.AuctionService) *AuctionHandler {
	return &AuctionHandler{service: svc}
}

func (h *AuctionHandler) RegisterRoutes(router *gin.RouterGroup) {
	auctions := router.Group("/auctions")
	{
		auctions.GET("", h.list)
		auctions.GET("/:id", h.getByID)
	}
}

func (h *AuctionHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"auctions": h.service.ListActive()})
}

func (h *AuctionHandler) getByID(c *gin.Context) {
	auction, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAuctionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, auction)
}
