package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/metrics"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/validation"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/web"
)

const msgBadCredentials = "Please enter a correct username and password."

// LoginPage GET /auth/login/
func LoginPage(c *gin.Context) {
	web.Render(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"next":  c.Query("next"),
	})
}

// Login POST /auth/login/
func Login(c *gin.Context) {
	route := c.FullPath()

	in, fe := ValidateLogin(LoginInput{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
		Next:     c.PostForm("next"),
	})
	data := gin.H{
		"title":    "Log in",
		"next":     in.Next,
		"username": in.Username,
	}
	if fe.Any() {
		data["error"] = msgBadCredentials
		web.Render(c, http.StatusOK, "login.html", data)
		return
	}

	u, err := user.FindByUsername(in.Username)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		web.ServerError(c, err)
		return
	}
	if u == nil || !u.CheckPassword(in.Password) {
		metrics.LoginFailures.Inc()
		logs.LogJSON("WARN", "Login failed", map[string]interface{}{
			"route": route,
			"extra": fmt.Sprintf("username : %s", in.Username),
		})
		data["error"] = msgBadCredentials
		web.Render(c, http.StatusOK, "login.html", data)
		return
	}

	if err := startSession(c, u); err != nil {
		web.ServerError(c, err)
		return
	}

	logs.LogJSON("INFO", "User logged in", map[string]interface{}{
		"route":  route,
		"userID": u.ID,
	})
	c.Redirect(http.StatusFound, SafeNext(in.Next))
}

// SignupPage GET /auth/signup/
func SignupPage(c *gin.Context) {
	web.Render(c, http.StatusOK, "signup.html", gin.H{
		"title": "Sign up",
		"form":  SignupInput{},
	})
}

// Signup POST /auth/signup/
func Signup(c *gin.Context) {
	route := c.FullPath()

	in, fe := ValidateSignup(SignupInput{
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Username:  c.PostForm("username"),
		Email:     c.PostForm("email"),
		Password:  c.PostForm("password"),
	})
	if fe == nil {
		fe = validation.FieldErrors{}
	}

	if !fe.Has("username") {
		taken, err := user.ExistsByUsername(in.Username)
		if err != nil {
			web.ServerError(c, err)
			return
		}
		if taken {
			fe.Add("username", "A user with that username already exists.")
		}
	}
	if !fe.Has("email") {
		taken, err := user.ExistsByEmail(in.Email)
		if err != nil {
			web.ServerError(c, err)
			return
		}
		if taken {
			fe.Add("email", "A user with that email already exists.")
		}
	}
	if fe.Any() {
		logs.LogJSON("WARN", "Signup rejected", map[string]interface{}{
			"route": route,
			"error": fe.Error(),
		})
		in.Password = ""
		web.Render(c, http.StatusOK, "signup.html", gin.H{
			"title":  "Sign up",
			"form":   in,
			"errors": fe,
		})
		return
	}

	u := user.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := user.Create(&u, in.Password, current().PasswordHashCost); err != nil {
		web.ServerError(c, err)
		return
	}

	if err := startSession(c, &u); err != nil {
		web.ServerError(c, err)
		return
	}

	logs.LogJSON("INFO", "User signed up", map[string]interface{}{
		"route":  route,
		"userID": u.ID,
	})
	c.Redirect(http.StatusFound, "/")
}

// Logout GET /auth/logout/
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", current().CookieSecure, true)
	c.Redirect(http.StatusFound, "/")
}

func startSession(c *gin.Context, u *user.User) error {
	token, err := IssueToken(u.ID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(TokenTTL().Seconds()), "/", "", current().CookieSecure, true)
	return nil
}
