package usecase

// 認証済みの呼び出し側。認証と権限解決は外（middleware + auth usecase）で済んでいて、
// usecaseは受け取った権限セットを事前条件として見るだけ。権限の検索はしない。
type Actor struct {
	UserID      int64
	Permissions []string
}

func (a Actor) Can(perm string) bool {
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// 必要権限のチェック。足りなければPermissionError。
func (a Actor) require(perm string) error {
	if a.UserID <= 0 {
		return &PermissionError{Required: perm}
	}
	if !a.Can(perm) {
		return &PermissionError{Required: perm}
	}
	return nil
}
