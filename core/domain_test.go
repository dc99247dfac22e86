package core

import "testing"

func TestCredential_LoggedIn(t *testing.T) {
	empty := ""
	tests := []struct {
		name string
		cred Credential
		want bool
	}{
		{"token present", NewCredential(7, "T"), true},
		{"nil token is logged out even with account id", Credential{AccountID: 7}, false},
		{"blank token is logged out", Credential{AccountID: 7, Token: &empty}, false},
		{"unset account id", Credential{AccountID: AccountIDUnset, Token: ptr("T")}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cred.LoggedIn(); got != tc.want {
				t.Fatalf("LoggedIn() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCredential_Equal(t *testing.T) {
	if !NewCredential(1, "a").Equal(NewCredential(1, "a")) {
		t.Fatalf("identical credentials must compare equal")
	}
	if NewCredential(1, "a").Equal(NewCredential(1, "b")) {
		t.Fatalf("different tokens must not compare equal")
	}
	if NewCredential(1, "a").Equal(Credential{AccountID: 1}) {
		t.Fatalf("nil token must not equal set token")
	}
	if !(Credential{AccountID: 2}).Equal(Credential{AccountID: 2}) {
		t.Fatalf("two revoked credentials for the same account must compare equal")
	}
}

func TestAccountProfile_Validate(t *testing.T) {
	if err := (AccountProfile{PK: 1, Email: "a@b.com"}).Validate(); err != nil {
		t.Fatalf("valid profile: %v", err)
	}
	if err := (AccountProfile{PK: AccountIDUnset, Email: "a@b.com"}).Validate(); err == nil {
		t.Fatalf("expected invalid account id error")
	}
	if err := (AccountProfile{PK: 1, Email: "  "}).Validate(); err == nil {
		t.Fatalf("expected email required error")
	}
}

func ptr(s string) *string {
	return &s
}
