package services

// Pagination is the page window of list endpoints.
type Pagination struct {
	Page  int `form:"page,default=1" json:"page" binding:"min=1"`
	Limit int `form:"limit,default=10" json:"limit" binding:"min=1,max=100"`
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
