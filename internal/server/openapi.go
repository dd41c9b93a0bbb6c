package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/quizbrawl/arena/internal/questions"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "QuizBrawl Arena API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the QuizBrawl elimination quiz game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/matches
	createMatch, _ := r.NewOperationContext(http.MethodPost, "/api/matches")
	createMatch.SetSummary("Create match")
	createMatch.SetDescription("Creates a new match with the caller as host. Returns the host's bearer token.")
	createMatch.AddReqStructure(CreateMatchRequest{})
	createMatch.AddRespStructure(CreateMatchResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createMatch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createMatch)

	// POST /api/matches/{match}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/matches/{match}/join")
	postJoin.SetSummary("Join a match")
	postJoin.SetDescription("Player joins a match by ID. Returns a bearer token. Mid-game joins receive the current state on the event stream.")
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postJoin)

	// POST /api/matches/{match}/leave
	postLeave, _ := r.NewOperationContext(http.MethodPost, "/api/matches/{match}/leave")
	postLeave.SetSummary("Leave a match")
	postLeave.SetDescription("Removes the player and revokes their token. Requires Bearer token.")
	postLeave.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postLeave.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLeave)

	// POST /api/matches/{match}/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/matches/{match}/start")
	postStart.SetSummary("Start the game")
	postStart.SetDescription("Begins the elimination rounds. Requires the host's Bearer token.")
	postStart.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStart)

	// POST /api/matches/{match}/end
	postEnd, _ := r.NewOperationContext(http.MethodPost, "/api/matches/{match}/end")
	postEnd.SetSummary("Force-end the game")
	postEnd.SetDescription("Ends the match for everyone. Requires the host's Bearer token.")
	postEnd.AddReqStructure(ForceEndRequest{})
	postEnd.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postEnd.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postEnd)

	// POST /api/matches/{match}/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/matches/{match}/answer")
	postAnswer.SetSummary("Submit answer")
	postAnswer.SetDescription("Submit an answer for the current question. The verdict arrives on the event stream. Requires Bearer token.")
	postAnswer.AddReqStructure(AnswerRequest{})
	postAnswer.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusAccepted))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postAnswer)

	// GET /api/matches/{match}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/matches/{match}/state")
	getState.SetSummary("Get match state")
	getState.SetDescription("Returns a point-in-time snapshot for reconnecting clients. Requires Bearer token.")
	getState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// GET /api/matches/{match}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/matches/{match}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of match broadcasts. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/questions
	listQuestions, _ := r.NewOperationContext(http.MethodGet, "/api/admin/questions")
	listQuestions.SetSummary("List questions")
	listQuestions.SetDescription("Returns the question catalogue, optionally filtered by category. Requires admin_session cookie.")
	listQuestions.AddRespStructure([]questions.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	listQuestions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listQuestions)

	// POST /api/admin/questions
	createQuestion, _ := r.NewOperationContext(http.MethodPost, "/api/admin/questions")
	createQuestion.SetSummary("Create question")
	createQuestion.SetDescription("Adds a question to the catalogue. Requires admin_session cookie.")
	createQuestion.AddReqStructure(QuestionRequest{})
	createQuestion.AddRespStructure(questions.Question{}, openapi.WithHTTPStatus(http.StatusCreated))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createQuestion)

	// GET /api/admin/questions/{id}
	getQuestion, _ := r.NewOperationContext(http.MethodGet, "/api/admin/questions/{id}")
	getQuestion.SetSummary("Get question")
	getQuestion.SetDescription("Returns a single catalogue question. Requires admin_session cookie.")
	getQuestion.AddRespStructure(questions.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getQuestion)

	// PUT /api/admin/questions/{id}
	updateQuestion, _ := r.NewOperationContext(http.MethodPut, "/api/admin/questions/{id}")
	updateQuestion.SetSummary("Update question")
	updateQuestion.SetDescription("Replaces a catalogue question. Requires admin_session cookie.")
	updateQuestion.AddReqStructure(QuestionRequest{})
	updateQuestion.AddRespStructure(questions.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	updateQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updateQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(updateQuestion)

	// DELETE /api/admin/questions/{id}
	deleteQuestion, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/questions/{id}")
	deleteQuestion.SetSummary("Delete question")
	deleteQuestion.SetDescription("Removes a question from the catalogue. Requires admin_session cookie.")
	deleteQuestion.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteQuestion)

	// GET /api/admin/matches
	listMatches, _ := r.NewOperationContext(http.MethodGet, "/api/admin/matches")
	listMatches.SetSummary("List archived matches")
	listMatches.SetDescription("Returns finished matches with outcomes. Requires admin_session cookie.")
	listMatches.AddRespStructure([]MatchRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	listMatches.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listMatches)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
