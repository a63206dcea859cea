// Package models defines the domain data types for the console service.
package models

// Role values assigned by the SRI backend.
const (
	RoleVP       = "vp"
	RoleDirector = "director"
	RoleSales    = "sales"
	RoleAdmin    = "admin"
)

// DefaultDept is the zone label used when the backend omits a department.
const DefaultDept = "华东战区"

// User is the canonical operator profile, normalized from both the legacy
// and the current backend login response shapes.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
	Dept  string `json:"dept"`
	EmpNo string `json:"empNo,omitempty"`
}
