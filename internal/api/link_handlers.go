package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/axellelanca/shortlinks/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	maxBatchSize  = 50
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// CreateLinkRequest is the JSON body of POST /api/v1/links.
// Omit alias to get a generated code; open_in_new_tab defaults to true.
type CreateLinkRequest struct {
	OriginalURL  string `json:"original_url"`
	Alias        string `json:"alias"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	OpenInNewTab *bool  `json:"open_in_new_tab"`
}

func (r CreateLinkRequest) input() services.CreateLinkInput {
	return services.CreateLinkInput{
		OriginalURL:  r.OriginalURL,
		Alias:        r.Alias,
		Title:        r.Title,
		Description:  r.Description,
		OpenInNewTab: r.OpenInNewTab,
	}
}

// UpdateLinkRequest is the JSON body of PATCH /api/v1/links/id/:id.
// Absent fields stay unchanged.
type UpdateLinkRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	OpenInNewTab *bool   `json:"open_in_new_tab"`
	IsActive     *bool   `json:"is_active"`
}

// CreateLinksBatchRequest creates several links in one call.
type CreateLinksBatchRequest struct {
	Links []CreateLinkRequest `json:"links"`
}

// BatchResult is the outcome for one entry of a batch.
type BatchResult struct {
	OriginalURL string       `json:"original_url"`
	Success     bool         `json:"success"`
	Link        *models.Link `json:"link,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// BatchSummary holds aggregate counts for a batch.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type CreateLinksBatchResponse struct {
	Results []BatchResult `json:"results"`
	Summary BatchSummary  `json:"summary"`
}

func CreateLinkHandler(links *services.LinkService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		link, err := links.CreateLink(c.Request.Context(), ownerID(c), req.input())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	}
}

// CreateLinksBatchHandler creates each entry independently, so some entries
// may succeed while others fail. It answers 201 when all succeed, 400 when
// all fail and 207 otherwise.
func CreateLinksBatchHandler(links *services.LinkService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLinksBatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		if len(req.Links) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "links must contain at least one entry"})
			return
		}
		if len(req.Links) > maxBatchSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "too many links in one batch, maximum is " + strconv.Itoa(maxBatchSize)})
			return
		}

		owner := ownerID(c)
		resp := CreateLinksBatchResponse{Results: make([]BatchResult, 0, len(req.Links))}
		for _, entry := range req.Links {
			result := BatchResult{OriginalURL: entry.OriginalURL}

			link, err := links.CreateLink(c.Request.Context(), owner, entry.input())
			if err != nil {
				result.Error = batchErrorMessage(err)
				if customerrors.IsRetryable(err) {
					log.Error().Err(err).Str("original_url", entry.OriginalURL).Msg("batch entry failed")
				}
				resp.Summary.Failed++
			} else {
				result.Success = true
				result.Link = link
				resp.Summary.Successful++
			}
			resp.Results = append(resp.Results, result)
		}
		resp.Summary.Total = len(req.Links)

		status := http.StatusMultiStatus
		switch {
		case resp.Summary.Failed == 0:
			status = http.StatusCreated
		case resp.Summary.Successful == 0:
			status = http.StatusBadRequest
		}
		c.JSON(status, resp)
	}
}

func batchErrorMessage(err error) string {
	switch {
	case errors.Is(err, customerrors.ErrValidation):
		return err.Error()
	case errors.Is(err, customerrors.ErrSlugConflict):
		return "slug already in use"
	case errors.Is(err, customerrors.ErrSlugSpaceExhausted):
		return "unable to generate unique slug"
	default:
		return "failed to create short link"
	}
}

// ListLinksHandler lists the caller's links. Query parameters: search, status.
func ListLinksHandler(links *services.LinkService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.LinkFilter{
			Search: c.Query("search"),
			Status: models.LinkStatus(c.DefaultQuery("status", string(models.StatusAll))),
		}

		result, err := links.ListLinksByOwner(c.Request.Context(), ownerID(c), filter)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"links": result, "count": len(result)})
	}
}

func SummaryHandler(links *services.LinkService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := links.OwnerSummary(c.Request.Context(), ownerID(c))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func GetLinkHandler(links *services.LinkService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		link, err := links.GetLink(c.Request.Context(), c.Param("id"), ownerID(c))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

func UpdateLinkHandler(links *services.LinkService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		link, err := links.UpdateLink(c.Request.Context(), c.Param("id"), ownerID(c), services.LinkUpdate{
			Title:        req.Title,
			Description:  req.Description,
			OpenInNewTab: req.OpenInNewTab,
			IsActive:     req.IsActive,
		})
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

func DeleteLinkHandler(links *services.LinkService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := links.DeleteLink(c.Request.Context(), c.Param("id"), ownerID(c)); err != nil {
			respondError(c, log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// QRCodeHandler renders the short URL of an owned link as a PNG QR code.
// ?size= sets the edge in pixels; ?format=base64 returns a data URI as JSON.
func QRCodeHandler(links *services.LinkService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		size := defaultQRSize
		if raw := c.Query("size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < minQRSize || n > maxQRSize {
				respondError(c, log, customerrors.NewValidationError("size", "must be an integer between 64 and 1024"))
				return
			}
			size = n
		}

		link, err := links.GetLink(c.Request.Context(), c.Param("id"), ownerID(c))
		if err != nil {
			respondError(c, log, err)
			return
		}

		png, err := qrcode.Encode(link.ShortURL, qrcode.Medium, size)
		if err != nil {
			respondError(c, log, err)
			return
		}

		if c.Query("format") == "base64" {
			c.JSON(http.StatusOK, gin.H{
				"short_url": link.ShortURL,
				"qr":        "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
			})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}
