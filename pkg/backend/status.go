package backend

import (
	"fmt"
	"net/http"
)

// Code はバックエンドサービスが返す失敗コード。
// エラーレスポンスボディの "code" フィールドで伝達される。
type Code string

const (
	// CodeOK は成功を表す。
	CodeOK Code = "OK"
	// CodeNotFound は対象エンティティが存在しないことを表す。
	CodeNotFound Code = "NotFound"
	// CodeInvalidArgument はリクエスト内容が不正であることを表す。
	CodeInvalidArgument Code = "InvalidArgument"
	// CodeUnauthenticated は認証に失敗したことを表す。
	CodeUnauthenticated Code = "Unauthenticated"
	// CodePermissionDenied は権限が不足していることを表す。
	CodePermissionDenied Code = "PermissionDenied"
	// CodeAlreadyExists は対象エンティティが既に存在することを表す。
	CodeAlreadyExists Code = "AlreadyExists"
	// CodeFailedPrecondition は操作の前提条件を満たしていないことを表す。
	CodeFailedPrecondition Code = "FailedPrecondition"
	// CodeInternal はバックエンド内部のエラーを表す。
	CodeInternal Code = "Internal"
	// CodeUnavailable はバックエンドが一時的に利用不能であることを表す。
	CodeUnavailable Code = "Unavailable"
	// CodeUnknown は未知の失敗（通信不能を含む）を表す。
	CodeUnknown Code = "Unknown"
)

// HTTPStatus は失敗コードに対応するHTTPステータスコードを返す。
// マッピングは全域であり、未知のコードは500にフォールバックする。
func (c Code) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case CodeInternal:
		return http.StatusInternalServerError
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error はバックエンド呼び出しの失敗を表すエラー。
// バックエンドが報告した失敗コードと詳細メッセージを保持する。
type Error struct {
	// Code はバックエンドが報告した失敗コード。
	Code Code
	// Detail は失敗の詳細メッセージ。
	Detail string
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return fmt.Sprintf("バックエンドエラー: code=%s, detail=%s", e.Code, e.Detail)
}
