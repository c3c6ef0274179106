package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndmitrieva/lob-engine/internal/core"
	"github.com/ndmitrieva/lob-engine/internal/domain"
	"github.com/ndmitrieva/lob-engine/internal/middleware"
)

// HTTPServer exposes the book's read-only queries: depth, best prices,
// per-side volume and size, and order lookup. Order entry stays in-process;
// there is deliberately no POST surface here.
type HTTPServer struct {
	book *core.Book
	log  zerolog.Logger
}

func NewHTTPServer(book *core.Book, log zerolog.Logger) *HTTPServer {
	return &HTTPServer{book: book, log: log}
}

func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	limiter := middleware.NewRateLimiter(50 * time.Millisecond)
	r.Use(limiter.Middleware())

	r.GET("/health", s.healthHandler)
	r.GET("/book", s.depthHandler)
	r.GET("/book/view", s.viewHandler)
	r.GET("/best", s.bestHandler)
	r.GET("/volume", s.volumeHandler)
	r.GET("/size", s.sizeHandler)
	r.GET("/orders/:id", s.orderHandler)

	return r
}

func (s *HTTPServer) Run(addr string) error {
	s.log.Info().Str("addr", addr).Str("symbol", s.book.Symbol()).Msg("market data server listening")
	return s.Router().Run(addr)
}

func (s *HTTPServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "symbol": s.book.Symbol()})
}

func (s *HTTPServer) depthHandler(c *gin.Context) {
	n, ok := depthParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.book.Depth(c.Request.Context(), n))
}

func (s *HTTPServer) viewHandler(c *gin.Context) {
	n, ok := depthParam(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, s.book.View(c.Request.Context(), n))
}

func (s *HTTPServer) bestHandler(c *gin.Context) {
	side, ok := sideParam(c)
	if !ok {
		return
	}

	var (
		price decimal.Decimal
		err   error
	)
	if side == domain.Buy {
		price, err = s.book.BestBid()
	} else {
		price, err = s.book.BestAsk()
	}
	if err != nil {
		if errors.Is(err, domain.ErrEmptySide) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no resting liquidity"})
			return
		}
		s.log.Error().Err(err).Str("side", string(side)).Msg("best price query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"side": side, "price": price.String()})
}

func (s *HTTPServer) volumeHandler(c *gin.Context) {
	side, ok := sideParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"side": side, "volume": s.book.Volume(side).String()})
}

func (s *HTTPServer) sizeHandler(c *gin.Context) {
	side, ok := sideParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"side": side, "size": s.book.Size(side)})
}

func (s *HTTPServer) orderHandler(c *gin.Context) {
	o, err := s.book.GetOrder(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         o.ID(),
		"side":       o.Side(),
		"type":       o.Type(),
		"price":      o.Price().String(),
		"quantity":   o.Quantity().String(),
		"status":     o.Status(),
		"created_at": o.CreatedAt(),
	})
}

func sideParam(c *gin.Context) (domain.Side, bool) {
	switch side := domain.Side(c.Query("side")); side {
	case domain.Buy, domain.Sell:
		return side, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be BUY or SELL"})
		return "", false
	}
}

func depthParam(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("depth", strconv.Itoa(core.DisplayDepth))
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth must be a positive integer"})
		return 0, false
	}
	return n, true
}
