package domain

var Tables = []interface{}{
	// Accounts
	&Customer{},
	// Scheduling
	&Job{},
}
