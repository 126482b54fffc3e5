// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// パスワードはbcryptハッシュのみを保持し、平文は一切保存しない。
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	CreatedAt      time.Time
}

// SessionUser はセッションに保存するユーザー情報のスナップショット。
// ログイン時点のユーザー項目をコピーし、リクエストごとにコンテキストへ注入する。
type SessionUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Session はユーザーのログインセッションを表す。
// トークン（ID）はクライアントのHTTP Only Cookieに保持される不透明な値で、
// 有効期限は作成時刻から24時間の絶対TTL。アクティビティによる延長は行わない。
type Session struct {
	ID        string
	UserID    int64
	User      SessionUser
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SnapshotOf はユーザーからセッション用スナップショットを生成する。
func SnapshotOf(u *User) SessionUser {
	return SessionUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
