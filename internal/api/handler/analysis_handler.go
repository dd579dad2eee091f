package handler

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/pkg/response"
	"Dreamscape/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	analysisSvc service.AnalysisService
}

func NewAnalysisHandler(analysisSvc service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisSvc: analysisSvc,
	}
}

// GetAnalysis 未生成时 data 为 null
func (s *AnalysisHandler) GetAnalysis(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	analysis, err := s.analysisSvc.GetAnalysis(c.Request.Context(), dreamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, analysis)
}

func (s *AnalysisHandler) GenerateAnalysis(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	analysis, err := s.analysisSvc.GenerateAnalysis(c.Request.Context(), currentUserID(c), dreamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, analysis)
}

func (s *AnalysisHandler) GenerateImage(c *gin.Context) {
	var req dto.ImageGenerateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	image, err := s.analysisSvc.GenerateImage(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, image)
}

func (s *AnalysisHandler) GenerateDreamImage(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	image, err := s.analysisSvc.GenerateDreamImage(c.Request.Context(), currentUserID(c), dreamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, image)
}
