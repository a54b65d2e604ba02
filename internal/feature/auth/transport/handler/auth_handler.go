// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library_backend/internal/api"
	"library_backend/internal/feature/auth/domain/entity"
	"library_backend/internal/feature/auth/transport/http/dto"
	"library_backend/internal/feature/auth/usecase"
	jwtmw "library_backend/internal/platform/jwt"
)

// クライアントに返すメッセージ
const (
	MsgRegistered         = "User registered successfully"
	MsgLoggedIn           = "Login successful"
	MsgEmailTaken         = "An account with this email already exists"
	MsgInvalidCredentials = "Invalid email or password"
	MsgUserNotFound       = "User not found"
	MsgInternal           = "Internal server error"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、トークンとユーザーを返します。
	Register(ctx context.Context, username, email, password string) (string, *entity.User, error)
	// Login はユーザーを認証し、成功時にJWTトークンとユーザーを返します。
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
	// Me は認証済みユーザーを返します。
	Me(ctx context.Context, userID uint) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをRegisterReqにバインド
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時はトークンとユーザー付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := api.BindStrictJSON(c, &req); err != nil {
		log.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("register validation failed")
		c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
		return
	}

	token, user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			log.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("register validation failed")
			c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			log.Warn().Str("remote_addr", c.ClientIP()).Msg("register with existing email")
			c.JSON(http.StatusConflict, api.Fail(MsgEmailTaken))
		default:
			log.Error().Err(err).Msg("register failed")
			c.JSON(http.StatusInternalServerError, api.Fail(MsgInternal))
		}
		return
	}

	log.Info().Uint("user_id", user.ID).Str("remote_addr", c.ClientIP()).Msg("user registered")
	c.JSON(http.StatusCreated, api.AuthResponse{
		Success: true,
		Message: MsgRegistered,
		Token:   token,
		User:    dto.FromUser(user),
	})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - リクエストJSONをLoginReqにバインド
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却
// - 認証成功時はJWTトークンとユーザー付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := api.BindStrictJSON(c, &req); err != nil {
		log.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("login validation failed")
		c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			log.Warn().Str("remote_addr", c.ClientIP()).Msg("login failed")
			c.JSON(http.StatusUnauthorized, api.Fail(MsgInvalidCredentials))
			return
		}
		log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, api.Fail(MsgInternal))
		return
	}

	log.Info().Uint("user_id", user.ID).Str("remote_addr", c.ClientIP()).Msg("user login successful")
	c.JSON(http.StatusOK, api.AuthResponse{
		Success: true,
		Message: MsgLoggedIn,
		Token:   token,
		User:    dto.FromUser(user),
	})
}

// Me は認証済みユーザーの情報を返します。
// jwtmw.AuthRequired の後ろに登録される前提です。
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail(jwtmw.MsgUnauthenticated))
		return
	}

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.Fail(MsgUserNotFound))
			return
		}
		log.Error().Err(err).Uint("user_id", userID).Msg("load current user failed")
		c.JSON(http.StatusInternalServerError, api.Fail(MsgInternal))
		return
	}

	c.JSON(http.StatusOK, api.UserResponse{Success: true, User: dto.FromUser(user)})
}
