package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishalbagda/MidWiseAi/internal/domain"
)

var (
	opPrescription = op{"Analysis failed", "Failed to analyze prescription"}
	opStrip        = op{"Scanning failed", "Failed to scan medicine strip"}
	opUpdate       = op{"Update failed", "Failed to update medicine information"}
	opHistory      = op{"Failed to fetch history", "Could not retrieve history"}
)

// UploadPrescription godoc
// @Summary Analyze a prescription or medical report
// @Tags prescription
// @Accept multipart/form-data
// @Produce json
// @Param prescription formData file true "PDF or image (jpeg, png, gif, webp)"
// @Success 200 {object} envelope{data=service.PrescriptionResult}
// @Failure 400 {object} errorBody
// @Failure 413 {object} errorBody
// @Failure 429 {object} errorBody
// @Router /api/prescription/upload [post]
func (h *Handler) UploadPrescription(c *gin.Context) {
	f, err := h.readUpload(c, "prescription")
	if err != nil {
		h.respondError(c, err, opPrescription)
		return
	}
	res, err := h.Analyzer.Prescription(c.Request.Context(), f, c.GetString(ctxUID))
	if err != nil {
		h.respondError(c, err, opPrescription)
		return
	}
	ok(c, http.StatusOK, res)
}

// PrescriptionHistory godoc
// @Summary Stored prescription analyses of the caller
// @Description Anonymous callers get an empty list.
// @Tags prescription
// @Produce json
// @Success 200 {object} envelope{data=historyResp}
// @Router /api/prescription/history [get]
func (h *Handler) PrescriptionHistory(c *gin.Context) {
	h.history(c, domain.ScanKindPrescription)
}

// ScanStrip godoc
// @Summary Read a medicine strip photo
// @Tags ocr
// @Accept multipart/form-data
// @Produce json
// @Param stripImage formData file true "image (jpeg, png, gif, webp)"
// @Success 200 {object} envelope{data=service.StripResult}
// @Failure 400 {object} errorBody
// @Failure 413 {object} errorBody
// @Failure 503 {object} errorBody
// @Router /api/ocr/scan [post]
func (h *Handler) ScanStrip(c *gin.Context) {
	f, err := h.readUpload(c, "stripImage")
	if err != nil {
		h.respondError(c, err, opStrip)
		return
	}
	res, err := h.Analyzer.Strip(c.Request.Context(), f, c.GetString(ctxUID))
	if err != nil {
		h.respondError(c, err, opStrip)
		return
	}
	ok(c, http.StatusOK, res)
}

// UpdateMedicine godoc
// @Summary Re-evaluate a corrected strip reading
// @Tags ocr
// @Accept json
// @Produce json
// @Param payload body medicineReq true "medicine"
// @Success 200 {object} envelope{data=service.MedicineUpdate}
// @Failure 400 {object} errorBody
// @Router /api/ocr/update [post]
func (h *Handler) UpdateMedicine(c *gin.Context) {
	var in medicineReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	res, err := h.Donations.Update(c.Request.Context(), in.medicine())
	if err != nil {
		h.respondError(c, err, opUpdate)
		return
	}
	ok(c, http.StatusOK, res)
}

// ScanHistory godoc
// @Summary Stored strip scans of the caller
// @Tags ocr
// @Produce json
// @Success 200 {object} envelope{data=historyResp}
// @Router /api/ocr/history [get]
func (h *Handler) ScanHistory(c *gin.Context) {
	h.history(c, domain.ScanKindStrip)
}

type historyResp struct {
	History []domain.ScanRecord `json:"history"`
	Total   int                 `json:"total"`
}

func (h *Handler) history(c *gin.Context, kind string) {
	recs, err := h.Analyzer.History(c.Request.Context(), c.GetString(ctxUID), kind)
	if err != nil {
		h.respondError(c, err, opHistory)
		return
	}
	ok(c, http.StatusOK, historyResp{History: recs, Total: len(recs)})
}
