package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestTranslator_Korean(t *testing.T) {
	tr := New("ko")
	if tr.Tag() != language.Korean {
		t.Fatalf("Tag() = %v; want ko", tr.Tag())
	}
	if got := tr.T(MsgInvalidID, LabelPost); got != "올바른 게시글 ID를 입력해주세요." {
		t.Fatalf("T(MsgInvalidID, post) = %q", got)
	}
	if got := tr.T(MsgFieldInUse, LabelEmail); got != "이미 사용 중인 이메일입니다." {
		t.Fatalf("T(MsgFieldInUse) = %q", got)
	}
	if got := tr.T(MsgLoginSucceeded); got != "로그인 성공" {
		t.Fatalf("T(MsgLoginSucceeded) = %q", got)
	}
}

func TestTranslator_EnglishFallsBackToKey(t *testing.T) {
	tr := New("en")
	if got := tr.T(MsgInvalidID, LabelComment); got != "please enter a valid comment ID" {
		t.Fatalf("T(MsgInvalidID, comment) = %q", got)
	}
	if got := tr.T(CodeNotFound); got != "NOT_FOUND" {
		t.Fatalf("T(CodeNotFound) = %q", got)
	}
}

func TestTranslator_UnknownLocaleIsKorean(t *testing.T) {
	if New("fr").Tag() != language.Korean {
		t.Fatalf("unknown locale should default to Korean")
	}
}

func TestMessage_StringAndRender(t *testing.T) {
	m := M(MsgInvalidID, LabelUser)
	if got := m.String(); got != "please enter a valid user ID" {
		t.Fatalf("String() = %q", got)
	}
	if got := New("ko").Render(m); got != "올바른 사용자 ID를 입력해주세요." {
		t.Fatalf("Render() = %q", got)
	}
	if got := M(MsgInternal).String(); got != "internal server error" {
		t.Fatalf("String() without args = %q", got)
	}
}

func TestCatalog_EveryKoreanTemplateIsRegistered(t *testing.T) {
	tr := New("ko")
	for k, want := range korean {
		// Templates with verbs are exercised above; plain ones must match.
		if containsVerb(want) {
			continue
		}
		if got := tr.T(k); got != want {
			t.Fatalf("T(%q) = %q; want %q", k, got, want)
		}
	}
}

func containsVerb(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '%' {
			return true
		}
	}
	return false
}
