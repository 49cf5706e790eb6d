package api

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Image     string   `json:"image,omitempty"`
	Members   []Member `json:"members"`
	CreatedAt int64    `json:"createdAt"`
}

type CreateGroupRequest struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
	Image   string `json:"image,omitempty"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type AddMemberRequest struct {
	GroupID string `json:"groupId"`
	Email   string `json:"email"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

type RemoveMemberResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

// Expenditure amounts are sent both as numbers and as 2-decimal display strings.
type Expenditure struct {
	ID             string   `json:"id"`
	GroupID        string   `json:"groupId"`
	Title          string   `json:"title"`
	Amount         float64  `json:"amount"`
	AmountDisplay  string   `json:"amountDisplay"`
	PayerID        string   `json:"payerId,omitempty"`
	ContributorIDs []string `json:"contributorIds"`
	CreatedAt      int64    `json:"createdAt"`
}

// CreateExpenditureRequest leaves PayerID empty for an expenditure nobody has paid yet.
type CreateExpenditureRequest struct {
	GroupID        string   `json:"groupId"`
	Title          string   `json:"title"`
	Amount         float64  `json:"amount"`
	PayerID        string   `json:"payerId,omitempty"`
	ContributorIDs []string `json:"contributorIds"`
}

type CreateExpenditureResponse struct {
	Expenditure *Expenditure `json:"expenditure"`
}

type ListExpendituresRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpendituresResponse struct {
	Expenditures []*Expenditure `json:"expenditures"`
}

type UpdateExpenditureRequest struct {
	ExpenditureID  string   `json:"expenditureId"`
	Title          string   `json:"title"`
	Amount         float64  `json:"amount"`
	PayerID        string   `json:"payerId,omitempty"`
	ContributorIDs []string `json:"contributorIds"`
}

type UpdateExpenditureResponse struct {
	Expenditure *Expenditure `json:"expenditure"`
}

type DeleteExpenditureRequest struct {
	ExpenditureID string `json:"expenditureId"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

// MemberBalance is positive when the group owes the member.
type MemberBalance struct {
	MemberID       string  `json:"memberId"`
	DisplayName    string  `json:"displayName"`
	Balance        float64 `json:"balance"`
	BalanceDisplay string  `json:"balanceDisplay"`
}

// Debt means From pays To.
type Debt struct {
	FromID        string  `json:"fromId"`
	FromName      string  `json:"fromName"`
	ToID          string  `json:"toId"`
	ToName        string  `json:"toName"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amountDisplay"`
}

type GetGroupBalancesResponse struct {
	GroupID      string          `json:"groupId"`
	TotalAmount  float64         `json:"totalAmount"`
	TotalDisplay string          `json:"totalDisplay"`
	Balances     []MemberBalance `json:"balances"`
	Debts        []Debt          `json:"debts"`
	Warnings     []string        `json:"warnings,omitempty"`
	Status       string          `json:"status"`
	Message      string          `json:"message"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
