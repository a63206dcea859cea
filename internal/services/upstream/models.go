package upstream

import (
	"encoding/json"
	"strings"

	"github.com/sri-intel/console-service/internal/domain/models"
)

// Credentials holds the operator login credentials. The login identifier is
// sent to the backend as both `username` and `phone` for compatibility with
// its two accepted request shapes.
type Credentials struct {
	Username string
	Password string
}

// LoginResult is the normalized outcome of a successful login.
type LoginResult struct {
	Token string
	User  *models.User
}

// loginRequest is the wire shape of the login call.
type loginRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// wireUser covers both the legacy ({username, role, name, emp_no}) and the
// current ({id, name, phone, role, dept}) user payload shapes.
type wireUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Dept     string `json:"dept"`
	EmpNo    string `json:"emp_no"`
}

// normalize converts a wire user into the canonical profile, filling name
// from username and dept with the default zone label when absent.
func (u wireUser) normalize() *models.User {
	name := u.Name
	if name == "" {
		name = u.Username
	}
	dept := u.Dept
	if dept == "" {
		dept = models.DefaultDept
	}
	return &models.User{
		ID:    u.ID,
		Name:  name,
		Phone: u.Phone,
		Role:  u.Role,
		Dept:  dept,
		EmpNo: u.EmpNo,
	}
}

// loginResponse covers both the legacy ({token}) and current ({access_token})
// login payload shapes.
type loginResponse struct {
	AccessToken string   `json:"access_token"`
	Token       string   `json:"token"`
	User        wireUser `json:"user"`
}

func (r loginResponse) token() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// errorBody is the backend error payload. The detail field is either a plain
// string or a list of validation errors carrying a msg each.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// extractDetail returns the human-readable message from a backend error
// payload, joining validation messages with "; ". Returns "" when the body
// carries no usable detail.
func extractDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
