// Package httpclient は外部APIへJSONリクエストを送るHTTPクライアントを提供する。
//
// タイムアウトを必ず設定し、2xx以外のレスポンスは *StatusError、
// タイムアウトは ErrTimeout として呼び出し側が区別できる形で返す。
// リトライは行わない。
package httpclient
