package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Default messages for failures constructed without one.
const (
	CodeBadRequest   Key = "BAD_REQUEST"
	CodeUnauthorized Key = "UNAUTHORIZED"
	CodeForbidden    Key = "FORBIDDEN"
	CodeNotFound     Key = "NOT_FOUND"
)

// Resource labels.
const (
	LabelUser    Key = "user"
	LabelPost    Key = "post"
	LabelComment Key = "comment"
	LabelAuthor  Key = "author"
	LabelEmail   Key = "email"
)

// Request pipeline.
const (
	MsgInvalidID         Key = "please enter a valid %s ID"
	MsgValidationFailed  Key = "request validation failed"
	MsgInvalidJSON       Key = "request body must be valid JSON"
	MsgInvalidFieldType  Key = "%s has an invalid type"
	MsgFieldInvalid      Key = "%s is invalid"
	MsgFieldInUse        Key = "%s is already in use"
	MsgInternal          Key = "internal server error"
	MsgRouteNotFound     Key = "route not found"
	MsgRateLimited       Key = "rate limit exceeded"
	MsgInvalidSort       Key = "unsupported sort field"
	MsgInvalidOrder      Key = "order must be asc or desc"
	MsgSearchTermMissing Key = "please enter a search term"
)

// Authentication.
const (
	MsgCredentialMissing Key = "authentication credentials are missing"
	MsgCredentialInvalid Key = "authentication credentials are invalid"
	MsgUnknownUser       Key = "no user matches the credentials"
	MsgEmailInUse        Key = "email is already in use"
	MsgAccountLocked     Key = "too many failed login attempts, try again later"
	MsgLoginSucceeded    Key = "login succeeded"
	MsgLogoutSucceeded   Key = "logout succeeded"
	MsgTokenRefreshed    Key = "token refreshed"
)

// Resources.
const (
	MsgUserNotFound    Key = "user not found"
	MsgPostNotFound    Key = "post not found"
	MsgCommentNotFound Key = "comment not found"
	MsgAuthorNotFound  Key = "author not found"
	MsgCommentDeleted  Key = "comment deleted"
	MsgPostWithComment Key = "post and first comment created"
	MsgPostPurged      Key = "post and its comments deleted"
)

// Field validation.
const (
	MsgEnterTitle       Key = "please enter a title"
	MsgEnterContent     Key = "please enter the content"
	MsgEnterPostTitle   Key = "please enter the post title"
	MsgEnterPostContent Key = "please enter the post content"
	MsgEnterComment     Key = "please enter the comment content"
	MsgEnterPassword    Key = "please enter the password"
	MsgInvalidEmail     Key = "not a valid email address"
	MsgPasswordTooShort Key = "password must be at least 6 characters"
	MsgNameTooShort     Key = "name must be at least 2 characters"
	MsgInvalidUserRef   Key = "not a valid user ID"
	MsgInvalidPostRef   Key = "not a valid post ID"
	MsgInvalidAuthorRef Key = "not a valid author ID"
	MsgPublishedNotBool Key = "published must be true or false"
	MsgNothingToUpdate  Key = "at least one field must be provided"
)

var korean = map[Key]string{
	LabelUser:    "사용자",
	LabelPost:    "게시글",
	LabelComment: "댓글",
	LabelAuthor:  "작성자",
	LabelEmail:   "이메일",

	MsgInvalidID:         "올바른 %s ID를 입력해주세요.",
	MsgValidationFailed:  "입력 데이터 검증 실패",
	MsgInvalidJSON:       "요청 본문이 올바른 JSON 형식이 아닙니다.",
	MsgInvalidFieldType:  "%s의 형식이 올바르지 않습니다.",
	MsgFieldInvalid:      "%s 값이 올바르지 않습니다.",
	MsgFieldInUse:        "이미 사용 중인 %s입니다.",
	MsgInternal:          "서버 내부 오류가 발생했습니다.",
	MsgRouteNotFound:     "요청한 경로를 찾을 수 없습니다.",
	MsgRateLimited:       "요청 한도를 초과했습니다.",
	MsgInvalidSort:       "지원하지 않는 정렬 기준입니다.",
	MsgInvalidOrder:      "정렬 순서는 asc 또는 desc여야 합니다.",
	MsgSearchTermMissing: "검색어를 입력해주세요.",

	MsgCredentialMissing: "인증 정보가 없습니다.",
	MsgCredentialInvalid: "인증 정보가 유효하지 않습니다.",
	MsgUnknownUser:       "인증 정보와 일치하는 사용자가 없습니다.",
	MsgEmailInUse:        "이미 사용 중인 이메일입니다.",
	MsgAccountLocked:     "로그인 시도 횟수를 초과했습니다. 잠시 후 다시 시도해주세요.",
	MsgLoginSucceeded:    "로그인 성공",
	MsgLogoutSucceeded:   "로그아웃 성공",
	MsgTokenRefreshed:    "토큰이 갱신되었습니다.",

	MsgUserNotFound:    "사용자를 찾을 수 없습니다.",
	MsgPostNotFound:    "게시글을 찾을 수 없습니다.",
	MsgCommentNotFound: "댓글을 찾을 수 없습니다.",
	MsgAuthorNotFound:  "작성자를 찾을 수 없습니다.",
	MsgCommentDeleted:  "댓글이 성공적으로 삭제되었습니다.",
	MsgPostWithComment: "게시글과 첫 댓글이 함께 생성되었습니다.",
	MsgPostPurged:      "게시글과 댓글이 안전하게 삭제되었습니다.",

	MsgEnterTitle:       "제목을 입력해주세요.",
	MsgEnterContent:     "내용을 입력해주세요.",
	MsgEnterPostTitle:   "게시글 제목을 입력해주세요.",
	MsgEnterPostContent: "게시글 내용을 입력해주세요.",
	MsgEnterComment:     "댓글 내용을 입력해주세요.",
	MsgEnterPassword:    "비밀번호를 입력해주세요.",
	MsgInvalidEmail:     "유효한 이메일 형식이 아닙니다.",
	MsgPasswordTooShort: "비밀번호는 6자 이상이어야 합니다.",
	MsgNameTooShort:     "이름은 2자 이상이어야 합니다.",
	MsgInvalidUserRef:   "유효한 사용자 ID가 아닙니다.",
	MsgInvalidPostRef:   "유효한 게시글 ID가 아닙니다.",
	MsgInvalidAuthorRef: "유효한 작성자 ID가 아닙니다.",
	MsgPublishedNotBool: "published 값은 true 또는 false여야 합니다.",
	MsgNothingToUpdate:  "수정할 항목을 하나 이상 입력해주세요.",
}

func init() {
	for k, v := range korean {
		if err := message.SetString(language.Korean, string(k), v); err != nil {
			panic(err)
		}
	}
}
