package domain

import (
	"errors"
)

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member already exists")
	ErrMembersLimitReached = errors.New("members limit reached")
)

// Member.ID is the connection id of the member.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	UserID   string `json:"userId,omitempty"`
}

// Members keeps join order for presentation only.
type Members struct {
	list  []Member
	limit int
}

func NewMembers(limit int) *Members {
	return &Members{
		list:  make([]Member, 0),
		limit: limit,
	}
}

func (m Members) Length() int {
	return len(m.list)
}

func (m Members) IsFull() bool {
	return m.limit > 0 && m.Length() >= m.limit
}

func (m Members) AsList() []Member {
	list := make([]Member, len(m.list))
	copy(list, m.list)
	return list
}

func (m Members) GetByID(id string) (Member, int, error) {
	for index, member := range m.list {
		if member.ID == id {
			return member, index, nil
		}
	}

	return Member{}, 0, ErrMemberNotFound
}

func (m *Members) Add(member Member) error {
	if _, _, err := m.GetByID(member.ID); err == nil {
		return ErrMemberAlreadyExists
	}

	if m.IsFull() {
		return ErrMembersLimitReached
	}

	m.list = append(m.list, member)
	return nil
}

// Update replaces the stored member with the same id and reports whether
// the display name changed.
func (m *Members) Update(member Member) (bool, error) {
	old, index, err := m.GetByID(member.ID)
	if err != nil {
		return false, err
	}

	m.list[index] = member
	return old.Username != member.Username, nil
}

func (m *Members) RemoveByID(id string) (Member, error) {
	member, index, err := m.GetByID(id)
	if err != nil {
		return Member{}, err
	}

	m.list = append(m.list[:index], m.list[index+1:]...)
	return member, nil
}
