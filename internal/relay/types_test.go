package relay

import (
	"encoding/json"
	"testing"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Mode
	}{
		{input: "refresh", want: ModeRefresh},
		{input: "login", want: ModeLogin},
		{input: "", want: ModeLogin},
		{input: "Refresh", want: ModeLogin},
		{input: "logout", want: ModeLogin},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.input); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestAuthToken_Sanitize は上流のトークンから機密フィールドが除かれることを検証する。
func TestAuthToken_Sanitize(t *testing.T) {
	t.Parallel()

	t.Run("上流のレスポンスは4フィールドすべて読み取れること", func(t *testing.T) {
		t.Parallel()

		var token AuthToken
		if err := json.Unmarshal([]byte(okToken), &token); err != nil {
			t.Fatalf("デシリアライズに失敗: %v", err)
		}
		want := AuthToken{AccessToken: "abc", RefreshToken: "r1", ExpiresIn: "3600", RefreshExpiresIn: "7200"}
		if token != want {
			t.Errorf("token = %+v, want %+v", token, want)
		}
	})

	t.Run("サニタイズ後はaccess_tokenとexpires_inのみになること", func(t *testing.T) {
		t.Parallel()

		token := AuthToken{AccessToken: "abc", RefreshToken: "r1", ExpiresIn: "3600", RefreshExpiresIn: "7200"}
		got, err := json.Marshal(token.Sanitize())
		if err != nil {
			t.Fatalf("シリアライズに失敗: %v", err)
		}
		want := `{"access_token":"abc","expires_in":3600}`
		if string(got) != want {
			t.Errorf("Sanitize() = %s, want %s", got, want)
		}
	})
}

// TestAuthToken_ExpiresIn は有効期限の数値表現が上流のまま保たれることを検証する。
func TestAuthToken_ExpiresIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		upstream string
		want     string
	}{
		{name: "整数", upstream: `{"access_token":"abc","expires_in":3600}`, want: `{"access_token":"abc","expires_in":3600}`},
		{name: "小数表記", upstream: `{"access_token":"abc","expires_in":3600.0}`, want: `{"access_token":"abc","expires_in":3600.0}`},
		{name: "数値文字列", upstream: `{"access_token":"abc","expires_in":"3600"}`, want: `{"access_token":"abc","expires_in":3600}`},
		{name: "欠落時は0", upstream: `{"access_token":"abc"}`, want: `{"access_token":"abc","expires_in":0}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var token AuthToken
			if err := json.Unmarshal([]byte(tt.upstream), &token); err != nil {
				t.Fatalf("デシリアライズに失敗: %v", err)
			}
			got, err := json.Marshal(token.Sanitize())
			if err != nil {
				t.Fatalf("シリアライズに失敗: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Sanitize() = %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("数値でない文字列はデシリアライズエラーになること", func(t *testing.T) {
		t.Parallel()

		var token AuthToken
		if err := json.Unmarshal([]byte(`{"access_token":"abc","expires_in":"soon"}`), &token); err == nil {
			t.Error("エラーが返されなかった")
		}
	})
}

// TestAuthToken_Validate はアクセストークンの必須チェックを検証する。
func TestAuthToken_Validate(t *testing.T) {
	t.Parallel()

	if err := (AuthToken{AccessToken: "abc"}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := (AuthToken{RefreshToken: "r1", ExpiresIn: "3600"}).Validate(); err == nil {
		t.Error("access_tokenが空でもエラーが返されなかった")
	}
}

func TestEnvelope(t *testing.T) {
	t.Parallel()

	got, err := json.Marshal(failure(msgMethodNotAllowed))
	if err != nil {
		t.Fatalf("シリアライズに失敗: %v", err)
	}
	if want := `{"success":false,"data":"Method Not Allowed"}`; string(got) != want {
		t.Errorf("failure() = %s, want %s", got, want)
	}
}
