package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"github.com/vishalbagda/MidWiseAi/internal/service"
)

// medicineReq accepts {"medicineInfo": {...}} as the web client sends it,
// or the medicine fields at the top level.
type medicineReq struct {
	MedicineInfo *domain.Medicine `json:"medicineInfo"`
	domain.Medicine
}

func (r medicineReq) medicine() domain.Medicine {
	if r.MedicineInfo != nil {
		return *r.MedicineInfo
	}
	return r.Medicine
}

type reportReq struct {
	DonationInfo *service.DonationInfo `json:"donationInfo"`
}

var (
	opRecommend  = op{"Recommendation failed", "Failed to get recommendation"}
	opCenters    = op{"Search failed", "Failed to find donation centers"}
	opReport     = op{"Report failed", "Failed to record donation"}
	opMyDonation = op{"Failed to fetch donations", "Could not retrieve your donations"}
)

// DonateDisposeRecommendation godoc
// @Summary Keep, donate or dispose
// @Description A past expiry date always yields "dispose".
// @Tags donate-dispose
// @Accept json
// @Produce json
// @Param payload body medicineReq true "medicine"
// @Success 200 {object} envelope{data=service.Recommendation}
// @Failure 400 {object} errorBody
// @Router /api/donate-dispose/recommendation [post]
func (h *Handler) DonateDisposeRecommendation(c *gin.Context) {
	var in medicineReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	res, err := h.Donations.Recommend(c.Request.Context(), in.medicine())
	if err != nil {
		h.respondError(c, err, opRecommend)
		return
	}
	ok(c, http.StatusOK, res)
}

// DonationCenters godoc
// @Summary Donation centers near a location
// @Tags donate-dispose
// @Produce json
// @Param location query string false "city, address or zip substring"
// @Param medicineType query string false "echoed in searchCriteria"
// @Success 200 {object} envelope{data=service.CenterSearch}
// @Router /api/donate-dispose/donation-centers [get]
func (h *Handler) DonationCenters(c *gin.Context) {
	res, err := h.Donations.FindCenters(c.Request.Context(), c.Query("location"), c.Query("medicineType"))
	if err != nil {
		h.respondError(c, err, opCenters)
		return
	}
	ok(c, http.StatusOK, res)
}

// DisposalGuidelines godoc
// @Summary Safe disposal guidelines
// @Tags donate-dispose
// @Produce json
// @Param medicineType query string false "medicine type"
// @Param location query string false "location"
// @Success 200 {object} envelope{data=service.GuidelinesResult}
// @Router /api/donate-dispose/disposal-guidelines [get]
func (h *Handler) DisposalGuidelines(c *gin.Context) {
	ok(c, http.StatusOK, h.Donations.Guidelines(c.Request.Context(), c.Query("medicineType"), c.Query("location")))
}

// ReportDonation godoc
// @Summary Record a completed donation
// @Tags donate-dispose
// @Accept json
// @Produce json
// @Param payload body reportReq true "donation"
// @Success 200 {object} envelope{data=service.DonationReceipt}
// @Failure 400 {object} errorBody
// @Router /api/donate-dispose/report-donation [post]
func (h *Handler) ReportDonation(c *gin.Context) {
	var in reportReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	res, err := h.Donations.Report(c.Request.Context(), in.DonationInfo, c.GetString(ctxUID), requestID(c))
	if err != nil {
		h.respondError(c, err, opReport)
		return
	}
	ok(c, http.StatusOK, res)
}

// MyDonations godoc
// @Summary Donations reported by the current user
// @Tags donate-dispose
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope{data=[]domain.DonationReport}
// @Failure 401 {object} errorBody
// @Router /api/donate-dispose/my-donations [get]
func (h *Handler) MyDonations(c *gin.Context) {
	res, err := h.Donations.MyReports(c.Request.Context(), c.GetString(ctxUID))
	if err != nil {
		h.respondError(c, err, opMyDonation)
		return
	}
	ok(c, http.StatusOK, res)
}
