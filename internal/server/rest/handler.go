package rest

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/logging"
	"github.com/dmitrijs2005/storypoint/internal/server/gate"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
	"github.com/dmitrijs2005/storypoint/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	msgUnauthorized      = "Unauthorized"
	msgInvalidBody       = "Invalid request body"
	msgRoomNotFound      = "Room not found"
	msgSignedUp          = "User registered successfully"
	msgLoggedIn          = "Logged in successfully"
	msgPasswordUpdated   = "Password updated successfully"
	msgProtectedEndpoint = "Hello from protected endpoint"
	statusOK             = "OK"
)

type UserFlows interface {
	SignUp(ctx context.Context, req services.SignUpRequest) (*services.Session, error)
	LogIn(ctx context.Context, req services.LogInRequest) (*services.Session, error)
	ChangePassword(ctx context.Context, userName string, req services.ChangePasswordRequest) error
}

type RoomFlows interface {
	CreateRoom(ctx context.Context, owner string, req services.CreateRoomRequest) (*models.Room, error)
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, headers map[string]string) gate.Decision
}

type messageResponse struct {
	Message string `json:"message"`
}

type sessionResponse struct {
	Message string          `json:"message"`
	User    models.Identity `json:"user"`
}

func message(msg string) messageResponse {
	return messageResponse{Message: msg}
}

type Handler struct {
	users  UserFlows
	rooms  RoomFlows
	gate   Authorizer
	cookie gate.CookiePolicy
	logger logging.Logger
}

func NewHandler(users UserFlows, rooms RoomFlows, g Authorizer, cookie gate.CookiePolicy, l logging.Logger) *Handler {
	return &Handler{
		users:  users,
		rooms:  rooms,
		gate:   g,
		cookie: cookie,
		logger: l.With("module", "rest"),
	}
}

// Router wires the routes and middleware onto a new gin engine.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery(h.logger), RequestLogger(h.logger))

	r.GET("/health", h.health)
	r.POST("/sign-up", h.signUp)
	r.POST("/log-in", h.logIn)

	protected := r.Group("/", RequireSession(h.gate))
	protected.POST("/change-password", h.changePassword)
	protected.POST("/rooms", h.createRoom)
	protected.GET("/rooms/:roomId", h.getRoom)
	protected.GET("/test", h.protectedTest)

	return r
}

// bind decodes the JSON body into req. An empty body leaves req zeroed so
// that validation reports the missing fields.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, message(msgInvalidBody))
		return false
	}
	return true
}

// writeError maps a flow error to its status code and public message.
func (h *Handler) writeError(c *gin.Context, err error) {
	var ve *services.ValidationError
	var ce *services.ConflictError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, message(ve.Message))
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, message(ce.Error()))
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, message(services.MsgInvalidCredentials))
	case errors.Is(err, services.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, message(msgRoomNotFound))
	default:
		if !errors.Is(err, common.ErrorInternal) {
			h.logger.Error(c.Request.Context(), "unhandled error", "error", err)
		}
		c.JSON(http.StatusInternalServerError, message(services.MsgInternal))
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

func (h *Handler) signUp(c *gin.Context) {
	var req services.SignUpRequest
	if !bind(c, &req) {
		return
	}

	s, err := h.users.SignUp(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	http.SetCookie(c.Writer, h.cookie.Cookie(s.Token))
	c.JSON(http.StatusCreated, sessionResponse{Message: msgSignedUp, User: s.User})
}

func (h *Handler) logIn(c *gin.Context) {
	var req services.LogInRequest
	if !bind(c, &req) {
		return
	}

	s, err := h.users.LogIn(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	http.SetCookie(c.Writer, h.cookie.Cookie(s.Token))
	c.JSON(http.StatusOK, sessionResponse{Message: msgLoggedIn, User: s.User})
}

func (h *Handler) changePassword(c *gin.Context) {
	id, _ := gate.IdentityFrom(c.Request.Context())

	var req services.ChangePasswordRequest
	if !bind(c, &req) {
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), id.UserName, req); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, message(msgPasswordUpdated))
}

func (h *Handler) createRoom(c *gin.Context) {
	id, _ := gate.IdentityFrom(c.Request.Context())

	var req services.CreateRoomRequest
	if !bind(c, &req) {
		return
	}

	room, err := h.rooms.CreateRoom(c.Request.Context(), id.UserName, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (h *Handler) getRoom(c *gin.Context) {
	room, err := h.rooms.GetRoom(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) protectedTest(c *gin.Context) {
	c.JSON(http.StatusOK, message(msgProtectedEndpoint))
}
