// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// CORSヘッダーの付与、リクエストIDの採番、zapによるアクセスログ、
// パニックリカバリなど、リレーの全ルートで共通して使用するミドルウェアを含む。
package middleware
