package utils

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestInitDBReplacesHandle(t *testing.T) {
	first, err := gorm.Open(sqlite.Open("file:dbtest1?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	second, err := gorm.Open(sqlite.Open("file:dbtest2?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	InitDB(first)
	if GetDB() != first {
		t.Fatal("GetDB() did not return the stored handle")
	}

	InitDB(second)
	if GetDB() != second {
		t.Fatal("GetDB() did not return the replacement handle")
	}
}
