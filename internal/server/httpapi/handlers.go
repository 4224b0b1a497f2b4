package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/server/models"
	"github.com/dmitrijs2005/deckexc/internal/server/services"
	"github.com/gin-gonic/gin"
)

// trimmedString drops surrounding whitespace while decoding, before the
// binding tags run.
type trimmedString string

func (t *trimmedString) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*t = trimmedString(strings.TrimSpace(v))
	return nil
}

type registerRequest struct {
	Email    trimmedString `json:"email" binding:"required,email"`
	Name     string        `json:"name" binding:"required,min=1"`
	Password string        `json:"password" binding:"required,min=6,max=50,password"`
	Question string        `json:"question" binding:"required,question"`
	Answer   string        `json:"answer" binding:"required,min=3,max=20"`
}

type loginRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	CaptchaToken string `json:"captchaToken"`
}

type resetRequest struct {
	Email    trimmedString `json:"email" binding:"required,email"`
	Answer   string        `json:"answer" binding:"required"`
	Password string        `json:"password" binding:"required,min=6,max=50,password"`
}

type createPaymentRequest struct {
	UserID         string `json:"userId" binding:"required,uuid"`
	CardNumber     string `json:"cardNumber" binding:"required,len=16,numeric,luhn"`
	CVC            string `json:"cvc" binding:"required,cvc"`
	ExpirationDate string `json:"expirationDate" binding:"required,expiration"`
}

type updatePaymentRequest struct {
	UserID         string  `json:"userId" binding:"required,uuid"`
	CardNumber     *string `json:"cardNumber" binding:"omitempty,len=16,numeric,luhn"`
	CVC            *string `json:"cvc" binding:"omitempty,cvc"`
	ExpirationDate *string `json:"expirationDate" binding:"omitempty,expiration"`
}

type ledgerRequest struct {
	UserID string `json:"userId" binding:"required"`
	JTI    string `json:"jti" binding:"required"`
}

type profileResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	Token string   `json:"token,omitempty"`
}

func toProfile(u *models.User) profileResponse {
	return profileResponse{ID: u.ID, Email: u.Email, Name: u.Name, Roles: u.Roles}
}

func message(text string) gin.H {
	return gin.H{"message": text}
}

func (s *Server) health(c *gin.Context) {
	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			s.logger.Error(c.Request.Context(), "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	_, err := s.users.Register(c.Request.Context(), services.RegisterInput{
		Email:    string(req.Email),
		Name:     req.Name,
		Password: req.Password,
		Question: models.SecurityQuestion(req.Question),
		Answer:   req.Answer,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message("User registered successfully"))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	if s.captcha != nil && s.captcha.Enabled() {
		if err := s.captcha.Verify(c.Request.Context(), req.CaptchaToken); err != nil {
			s.abortWithError(c, err)
			return
		}
	}

	res, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": res.Email, "token": res.Token})
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	if err := s.users.ResetPassword(c.Request.Context(), string(req.Email), req.Answer, req.Password); err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, message("Password has been successfully updated."))
}

func (s *Server) question(c *gin.Context) {
	q, err := s.users.GetSecurityQuestion(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": q})
}

func (s *Server) user(c *gin.Context) {
	u, err := s.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfile(u))
}

func (s *Server) logout(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		s.abortWithError(c, common.ErrInvalidToken)
		return
	}

	if err := s.tokens.Revoke(c.Request.Context(), claims.UserID, claims.JTI()); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Logged out"))
}

// status returns the caller's profile with a freshly minted token.
func (s *Server) status(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		s.abortWithError(c, common.ErrInvalidToken)
		return
	}

	u, err := s.users.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	token, err := s.tokens.Mint(c.Request.Context(), u.ID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	resp := toProfile(u)
	resp.Token = token
	c.JSON(http.StatusOK, resp)
}

func (s *Server) createPayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	view, err := s.payments.Create(c.Request.Context(), services.CreatePaymentInput{
		UserID:         req.UserID,
		CardNumber:     req.CardNumber,
		CVC:            req.CVC,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (s *Server) getPayment(c *gin.Context) {
	view, err := s.payments.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) updatePayment(c *gin.Context) {
	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	view, err := s.payments.Update(c.Request.Context(), req.UserID, services.UpdatePaymentInput{
		CardNumber:     req.CardNumber,
		CVC:            req.CVC,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) deletePayment(c *gin.Context) {
	if err := s.payments.Delete(c.Request.Context(), c.Param("userId")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Payment detail deleted"))
}

func (s *Server) check(c *gin.Context) {
	var req ledgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	revoked, err := s.tokens.IsRevoked(c.Request.Context(), req.UserID, req.JTI)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isRevoked": revoked})
}

func (s *Server) remove(c *gin.Context) {
	var req ledgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	if err := s.tokens.Revoke(c.Request.Context(), req.UserID, req.JTI); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Token removed"))
}
