package services

import (
	"context"
	"fmt"

	"memberd/internal/models"
)

// In-memory fakes for the repository and notifier ports. Tests construct
// them with the fixtures they need and inspect state afterwards.

type fakeUserRepo struct {
	users   map[string]*models.User
	saveErr error
	seq     int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok || u.IsDeleted {
		return nil, NotFoundf("user %s", id)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email && !u.IsDeleted {
			return u, nil
		}
	}
	return nil, NotFoundf("user %s", email)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return Conflictf("email %s", user.Email)
		}
	}
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Save(ctx context.Context, user *models.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return NotFoundf("user %s", id)
	}
	u.IsDeleted = true
	return nil
}

func (r *fakeUserRepo) ListByStatus(ctx context.Context, status models.UserStatus, page, limit int) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range r.users {
		if u.Status == status && !u.IsDeleted {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, roleID string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.RoleID == roleID && !u.IsDeleted {
			n++
		}
	}
	return n, nil
}

type fakeAudit struct {
	entries []*models.AuditTrailEntry
	err     error
}

func (a *fakeAudit) Record(ctx context.Context, entry *models.AuditTrailEntry) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, entry)
	return nil
}

type fakeNotifier struct {
	fail     bool
	approved []string
	rejected []string
	verify   []string
	reset    []string
}

func (n *fakeNotifier) AccountApproved(ctx context.Context, email, name string) bool {
	n.approved = append(n.approved, email)
	return !n.fail
}

func (n *fakeNotifier) AccountRejected(ctx context.Context, email, name string) bool {
	n.rejected = append(n.rejected, email)
	return !n.fail
}

func (n *fakeNotifier) VerifyEmail(ctx context.Context, email, name, verificationURL string) bool {
	n.verify = append(n.verify, email)
	return !n.fail
}

func (n *fakeNotifier) PasswordReset(ctx context.Context, email, name, resetURL string) bool {
	n.reset = append(n.reset, email)
	return !n.fail
}

type fakeRoleRepo struct {
	roles map[string]*models.Role
	seq   int
}

func newFakeRoleRepo(roles ...*models.Role) *fakeRoleRepo {
	r := &fakeRoleRepo{roles: make(map[string]*models.Role)}
	for _, role := range roles {
		r.roles[role.ID] = role
	}
	return r
}

func (r *fakeRoleRepo) GetByID(ctx context.Context, id string) (*models.Role, error) {
	role, ok := r.roles[id]
	if !ok || role.IsDeleted {
		return nil, NotFoundf("role %s", id)
	}
	return role, nil
}

func (r *fakeRoleRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	for _, role := range r.roles {
		if role.Name == name && !role.IsDeleted {
			return role, nil
		}
	}
	return nil, NotFoundf("role %s", name)
}

func (r *fakeRoleRepo) Create(ctx context.Context, role *models.Role) error {
	if role.ID == "" {
		r.seq++
		role.ID = fmt.Sprintf("role-%d", r.seq)
	}
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) Save(ctx context.Context, role *models.Role) error {
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error {
	role.Permissions = perms
	return nil
}

func (r *fakeRoleRepo) Delete(ctx context.Context, id string) error {
	delete(r.roles, id)
	return nil
}

type fakePermRepo struct {
	perms    map[string]*models.Permission
	roleRefs map[string]int64
	seq      int
}

func newFakePermRepo(perms ...*models.Permission) *fakePermRepo {
	r := &fakePermRepo{
		perms:    make(map[string]*models.Permission),
		roleRefs: make(map[string]int64),
	}
	for _, p := range perms {
		r.perms[p.ID] = p
	}
	return r
}

func (r *fakePermRepo) GetByID(ctx context.Context, id string) (*models.Permission, error) {
	p, ok := r.perms[id]
	if !ok {
		return nil, NotFoundf("permission %s", id)
	}
	return p, nil
}

func (r *fakePermRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Permission, error) {
	var out []models.Permission
	for _, id := range ids {
		if p, ok := r.perms[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePermRepo) GetByName(ctx context.Context, name string) (*models.Permission, error) {
	for _, p := range r.perms {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, NotFoundf("permission %s", name)
}

func (r *fakePermRepo) GetByResourceAction(ctx context.Context, resource, action string) (*models.Permission, error) {
	for _, p := range r.perms {
		if p.Resource == resource && p.Action == action {
			return p, nil
		}
	}
	return nil, NotFoundf("permission %s:%s", resource, action)
}

func (r *fakePermRepo) Create(ctx context.Context, perm *models.Permission) error {
	if perm.ID == "" {
		r.seq++
		perm.ID = fmt.Sprintf("perm-%d", r.seq)
	}
	r.perms[perm.ID] = perm
	return nil
}

func (r *fakePermRepo) Save(ctx context.Context, perm *models.Permission) error {
	r.perms[perm.ID] = perm
	return nil
}

func (r *fakePermRepo) Delete(ctx context.Context, id string) error {
	delete(r.perms, id)
	return nil
}

func (r *fakePermRepo) CountRoleRefs(ctx context.Context, permissionID string) (int64, error) {
	return r.roleRefs[permissionID], nil
}
