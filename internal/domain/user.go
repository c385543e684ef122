package domain

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCreator Role = "CREATOR"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCreator
}

// CanManage reports whether the role may edit content.
func (r Role) CanManage() bool {
	return r.Valid()
}

type UserAccount struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
}

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}
