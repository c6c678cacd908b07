package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishalbagda/MidWiseAi/internal/service"
)

type otcReq struct {
	Symptoms           string   `json:"symptoms"`
	Age                *float64 `json:"age"`
	Weight             *float64 `json:"weight"`
	Allergies          []string `json:"allergies"`
	CurrentMedications []string `json:"currentMedications"`
}

var opOTC = op{"Recommendations failed", "Failed to get OTC recommendations"}

// OTCRecommendations godoc
// @Summary OTC suggestions for symptoms
// @Tags otc
// @Accept json
// @Produce json
// @Param payload body otcReq true "symptoms and optional patient info"
// @Success 200 {object} envelope{data=service.OTCResult}
// @Failure 400 {object} errorBody
// @Router /api/otc/recommendations [post]
func (h *Handler) OTCRecommendations(c *gin.Context) {
	var in otcReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	res, err := h.OTC.Recommend(c.Request.Context(), service.OTCQuery{
		Symptoms: in.Symptoms,
		UserInfo: service.UserInfo{
			Age:                in.Age,
			Weight:             in.Weight,
			Allergies:          in.Allergies,
			CurrentMedications: in.CurrentMedications,
		},
	})
	if err != nil {
		h.respondError(c, err, opOTC)
		return
	}
	ok(c, http.StatusOK, res)
}

// OTCSearch godoc
// @Summary Search the OTC catalog by name or category
// @Tags otc
// @Produce json
// @Param query query string true "search term"
// @Success 200 {object} envelope{data=service.OTCSearch}
// @Failure 400 {object} errorBody
// @Router /api/otc/search [get]
func (h *Handler) OTCSearch(c *gin.Context) {
	res, err := h.OTC.Search(c.Query("query"))
	if err != nil {
		h.respondError(c, err, op{"Search failed", "Failed to search OTC medicines"})
		return
	}
	ok(c, http.StatusOK, res)
}

// OTCCategories godoc
// @Summary OTC categories
// @Tags otc
// @Produce json
// @Success 200 {object} envelope{data=service.OTCCategories}
// @Router /api/otc/categories [get]
func (h *Handler) OTCCategories(c *gin.Context) {
	ok(c, http.StatusOK, h.OTC.Categories())
}
