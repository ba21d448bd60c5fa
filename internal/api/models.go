package api

// User is the identity returned by the auth endpoints.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Todo is a server-owned task entity. The client never fabricates ids or
// flips IsDone on its own; it mirrors what the server returns.
type Todo struct {
	ID        string `json:"id"`
	Item      string `json:"item"`
	UserID    string `json:"userId"`
	IsDone    bool   `json:"isDone"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// TodoPage is one page of the todos listing.
type TodoPage struct {
	Entries   []Todo `json:"entries"`
	TotalData int    `json:"totalData"`
	TotalPage int    `json:"totalPage"`
}

// AuthResult is the content of a successful login or register call.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterPayload is the body sent to POST /register.
type RegisterPayload struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// ListQuery parameterizes GET /todos.
type ListQuery struct {
	Page      int
	Rows      int
	OrderKey  string
	OrderRule string
	IsDone    *bool  // nil = no server-side status filter
	Search    string // matched against the item text
}
