package models

import (
	"time"
)

func (ms *ModelSuite) TestFile_ConvertToAPI() {
	user := CreateUserFixtures(ms.DB, 1).Users[0]
	file := CreateFileFixtures(ms.DB, 1, user).Files[0]

	got := file.ConvertToAPI(ms.DB)
	ms.Equal(file.ID, got.ID)
	ms.Equal(file.URL, got.URL)
	ms.WithinDuration(file.URLExpiration, got.URLExpiration, time.Minute)
	ms.Equal(file.Name, got.Name)
	ms.Equal(file.Size, got.Size)
	ms.Equal(file.ContentType, got.ContentType)
	ms.Equal(file.CreatedByID, got.CreatedByID)
}

func (ms *ModelSuite) TestFile_SetLinked() {
	user := CreateUserFixtures(ms.DB, 1).Users[0]
	file := CreateFileFixtures(ms.DB, 1, user).Files[0]

	ms.False(file.Linked, "fixture file should start unlinked")

	ms.NoError(file.SetLinked(ms.DB))
	ms.True(file.Linked)

	var fromDB File
	ms.NoError(fromDB.Find(ms.DB, file.ID))
	ms.True(fromDB.Linked, "linked flag not persisted")

	ms.NoError(file.ClearLinked(ms.DB))
	ms.NoError(fromDB.Find(ms.DB, file.ID))
	ms.False(fromDB.Linked, "linked flag not cleared")
}

func (ms *ModelSuite) TestFile_Store() {
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	tooBig := File{
		Name:         "toobig.gif",
		Content:      make([]byte, 1024*1024*10+1),
		ContractorID: user.ContractorID,
		CreatedByID:  user.ID,
	}
	err := tooBig.Store(ms.DB)
	ms.Error(err, "expected an error storing an oversized file")

	badType := File{
		Name:         "mystery.bin",
		Content:      []byte{0x00, 0x01, 0x02, 0x03},
		ContractorID: user.ContractorID,
		CreatedByID:  user.ID,
	}
	err = badType.Store(ms.DB)
	ms.Error(err, "expected an error storing a file with a disallowed content type")

	good := File{
		Name:         "fine.gif",
		Content:      []byte("GIF87a"),
		ContractorID: user.ContractorID,
		CreatedByID:  user.ID,
	}
	ms.NoError(good.Store(ms.DB))
	ms.Equal("image/gif", good.ContentType)
	ms.NotEqual("", good.URL, "URL should be set after store")
}
