package model

// Platform is the operating system family a push channel delivers to.
type Platform string

const (
	PlatformAndroid Platform = "Android"
	PlatformIOS     Platform = "iOS"
	PlatformWeb     Platform = "Web"
)
