// Package backend はバックエンドサービスとのHTTP通信を行うクライアントを提供する。
//
// Gatewayが在庫・商品・注文・認証の各サービスを呼び出す際に使用する。
// バックエンドが返す失敗コードの正規化（HTTPステータスへの全域マッピング）も
// このパッケージが担当し、サービス間の通信パターンを統一する。
package backend
