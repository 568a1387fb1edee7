package rbac

type EnforceRequest struct {
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionRequest struct {
	Role     string `json:"role" binding:"required,oneof=ADMIN CADET"`
	Resource string `json:"resource" binding:"required,max=50"`
	Action   string `json:"action" binding:"required,max=50"`
}

type PermissionResponse struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
