// Package config はリレーサービスの設定を読み込む。
//
// 任意のYAMLファイルで非機密の既定値を与え、環境変数で上書きする。
// EKAの認証情報は環境変数からのみ読み込み、欠けていても読み込み自体は
// 失敗させない。欠落はリクエスト単位で検出してフェイルクローズする。
package config
