// Package logging はzapベースの構造化ロガーを生成する。
//
// ログレベルと出力フォーマット（json/console）を設定値から組み立て、
// 各コンポーネントに *zap.Logger として注入する。
package logging
