package users

func MockCryptPassword(f func(string) (string, error)) (restore func()) {
	saved := cryptPassword
	cryptPassword = f
	return func() {
		cryptPassword = saved
	}
}
