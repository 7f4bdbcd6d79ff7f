package auth

// Claims representa la identidad extraída del token del identity provider.
// UserID es el subject id estable (uid de firebase), no el id local.
type Claims struct {
	UserID      string
	PhoneNumber string
	Email       string
}
