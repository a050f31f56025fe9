package model

import "time"

// Credential — серверная модель записи хранилища: одна пара «сайт/логин»
// с зашифрованным секретом. Ciphertext и Nonce пишутся всегда вместе,
// одной операцией шифрования — это то, что исключает повторное
// использование nonce между версиями записи.
type Credential struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID int64  `gorm:"not null;index"` // ссылка на users.id

	// Связи
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Site      string `gorm:"not null"`
	LoginName string `gorm:"not null"`

	Ciphertext string `gorm:"not null"` // base64(шифртекст ‖ тег)
	Nonce      string `gorm:"not null"` // base64(iv, 12 байт)

	Pinned bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
