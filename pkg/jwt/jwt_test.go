package jwt

import "testing"

func TestGenAndParseToken(t *testing.T) {
	aToken, rToken, err := GenToken(42, "gopher")
	if err != nil {
		t.Fatalf("GenToken() error = %v", err)
	}
	if aToken == "" || rToken == "" {
		t.Fatal("双 Token 都不应为空")
	}

	claims, err := ParseToken(aToken)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != 42 || claims.Username != "gopher" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRefreshToken(t *testing.T) {
	_, rToken, err := GenToken(42, "gopher")
	if err != nil {
		t.Fatalf("GenToken() error = %v", err)
	}

	userID, err := ParseRefreshToken(rToken)
	if err != nil {
		t.Fatalf("ParseRefreshToken() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestParseInvalidToken(t *testing.T) {
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Error("非法 Token 应报错")
	}
	if _, err := ParseRefreshToken("not-a-token"); err == nil {
		t.Error("非法刷新 Token 应报错")
	}
}
