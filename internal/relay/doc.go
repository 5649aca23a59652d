// Package relay はEKA認証APIへのログイン/トークン更新を中継するサービスを提供する。
//
// フロントエンドから受けたリクエストを検証し、環境変数由来のクライアント
// 認証情報を付けて上流の認証APIに転送する。レスポンスからは
// refresh_token と refresh_expires_in を必ず取り除いてから返す。
// トークンの保存やリトライは行わない。
package relay
