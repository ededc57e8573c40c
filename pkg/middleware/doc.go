// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// JWT認証トークンの検証、許可ロール集合に基づく認可、リクエストID付与、
// パニックリカバリ、CORS設定など、Gatewayの全ルートで共通して使用する
// ミドルウェアを含む。
package middleware
