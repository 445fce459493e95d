package request

type ChangeCapacityRequest struct {
	Capacity int `json:"capacity" binding:"required,gt=0"`
}
