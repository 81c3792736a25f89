package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/entities"
)

// MemberStore defines database operations for member management.
type MemberStore interface {
	ListMembers() ([]entities.Member, error)
	CreateMember(member *entities.Member) error
	GetMemberByID(id uint) (*entities.Member, error)
	EmailTaken(email string, excludeID uint) (bool, error)
	GetMemberLoans(memberID uint) ([]entities.Loan, error)
	UpdateMember(member *entities.Member, updates map[string]any) error
	DeleteMember(member *entities.Member) error
}

type MembersController struct {
	store MemberStore
}

func NewMembersController(store MemberStore) *MembersController {
	return &MembersController{store: store}
}

type createMemberRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,email,max=255"`
	Phone string `json:"phone" binding:"required,max=20"`
}

type updateMemberRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=255"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=20"`
}

// ListMembers returns all members
// GET /members
func (mc *MembersController) ListMembers(c *gin.Context) {
	members, err := mc.store.ListMembers()
	if err != nil {
		respondInternalError(c, err, "list members")
		return
	}
	c.JSON(http.StatusOK, members)
}

// CreateMember inserts a new member
// POST /members
func (mc *MembersController) CreateMember(c *gin.Context) {
	var req createMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	taken, err := mc.store.EmailTaken(req.Email, 0)
	if err != nil {
		respondInternalError(c, err, "check member email")
		return
	}
	if taken {
		respondValidationErrors(c, map[string][]string{
			"email": {"The email has already been taken."},
		})
		return
	}

	member := entities.Member{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := mc.store.CreateMember(&member); err != nil {
		respondInternalError(c, err, "create member")
		return
	}

	respondCreated(c, member)
}

// GetMember returns a single member
// GET /members/:id
func (mc *MembersController) GetMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := mc.store.GetMemberByID(id)
	if err != nil {
		respondStoreError(c, err, "Member", "get member")
		return
	}

	c.JSON(http.StatusOK, member)
}

// UpdateMember applies a partial update; absent fields are untouched
// PUT /members/:id
func (mc *MembersController) UpdateMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := mc.store.GetMemberByID(id)
	if err != nil {
		respondStoreError(c, err, "Member", "update member")
		return
	}

	var req updateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		taken, err := mc.store.EmailTaken(*req.Email, member.ID)
		if err != nil {
			respondInternalError(c, err, "check member email")
			return
		}
		if taken {
			respondValidationErrors(c, map[string][]string{
				"email": {"The email has already been taken."},
			})
			return
		}
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		if err := mc.store.UpdateMember(member, updates); err != nil {
			respondInternalError(c, err, "update member")
			return
		}
	}

	c.JSON(http.StatusOK, member)
}

// DeleteMember hard-deletes a member
// DELETE /members/:id
func (mc *MembersController) DeleteMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := mc.store.GetMemberByID(id)
	if err != nil {
		respondStoreError(c, err, "Member", "delete member")
		return
	}

	if err := mc.store.DeleteMember(member); err != nil {
		respondInternalError(c, err, "delete member")
		return
	}

	respondDeleted(c, "Member")
}

// GetMemberLoans returns the loans issued to a member
// GET /members/:id/loans
func (mc *MembersController) GetMemberLoans(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := mc.store.GetMemberByID(id); err != nil {
		respondStoreError(c, err, "Member", "get member loans")
		return
	}

	loans, err := mc.store.GetMemberLoans(id)
	if err != nil {
		respondInternalError(c, err, "get member loans")
		return
	}

	c.JSON(http.StatusOK, loans)
}
