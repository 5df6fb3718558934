package handler

import (
	"errors"
	"strconv"

	"talent-bridge/internal/delivery/http/dto"
	"talent-bridge/internal/delivery/http/middleware"
	"talent-bridge/internal/domain/matching"
	"talent-bridge/internal/pkg/response"
	"talent-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/match/find-candidates/:project_id", h.FindCandidates)
	r.Get("/match/score/:project_id/:user_id", h.ScoreCandidate)
	r.Get("/matches/:match_id", h.GetMatch)
	r.Get("/projects/:project_id/matches", h.ListProjectMatches)
}

// FindCandidates runs a new match for the project on behalf of the caller.
func (h *MatchHandler) FindCandidates(c fiber.Ctx) error {
	requestedBy, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}

	run, results, err := h.uc.RunMatch(c.Context(), projectID, requestedBy)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchDetailResponse(run, results))
}

func (h *MatchHandler) ScoreCandidate(c fiber.Ctx) error {
	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	res, err := h.uc.ScoreCandidate(c.Context(), userID, projectID)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResultResponse(res))
}

func (h *MatchHandler) GetMatch(c fiber.Ctx) error {
	matchID, err := pathID(c, "match_id")
	if err != nil {
		return err
	}

	run, results, err := h.uc.GetMatch(c.Context(), matchID)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchDetailResponse(run, results))
}

func (h *MatchHandler) ListProjectMatches(c fiber.Ctx) error {
	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return err
	}
	limit, offset = usecase.PageBounds(limit, offset)

	runs, err := h.uc.ListProjectMatches(c.Context(), projectID, limit, offset)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	out := make([]dto.MatchRunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.NewMatchRunResponse(r))
	}
	return response.Page(c, out, limit, offset, len(out))
}

func pathID(c fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

func queryInt(c fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return v, nil
}

func mapMatchingUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrProjectNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Project not found", nil, err)
	case errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrMatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match not found", nil, err)
	case errors.Is(err, usecase.ErrNoRequirements):
		return middleware.NewAppError(fiber.StatusNotFound, "Project has no skill requirements", nil, err)
	case errors.Is(err, matching.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Invalid scoring data", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
