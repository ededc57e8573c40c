// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// 在庫・商品・注文・認証の4つのバックエンドサービスを単一のHTTP境界で
// 集約する。リクエストの認証・認可、入力検証、バックエンド向けリクエストへの
// 変換、バックエンド失敗コードのHTTPステータスへの正規化を担当する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線として機能する。
package gateway
