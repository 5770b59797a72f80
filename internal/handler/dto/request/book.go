package request

type PutBookRequest struct {
	Title string `json:"title" binding:"max=300"`
	Price *int64 `json:"price" binding:"required,min=0"`
}
