package service

// SetPasswordChecker replaces the bcrypt comparison used by Authenticate.
func (s *AuthService) SetPasswordChecker(check func(hash, password string) (bool, error)) {
	s.checkPassword = check
}
