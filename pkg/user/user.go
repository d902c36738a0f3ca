package user

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	// Timezone is an IANA timezone name used to interpret pay period dates.
	Timezone string
	// Currency is the ISO 4217 code all of the user's amounts are expressed in.
	Currency string
}
