package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weightlog/internal/service"
)

// 导入文件大小上限，备份文件远小于此值。
const maxImportSize = 10 << 20

// ExportData 以附件形式返回当前数据快照，文件名内嵌导出日期。
func (a *API) ExportData(c *gin.Context) {
	snapshot, err := a.transfer.Export()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "导出数据失败")
		return
	}

	fileName := service.ExportFileName(todayString())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.IndentedJSON(http.StatusOK, snapshot)
}

// ImportData 接收备份文件并导入，文件不合法时本地数据保持不变。
func (a *API) ImportData(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的文件")
		return
	}

	opened, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取上传文件失败")
		return
	}
	defer opened.Close()

	raw, err := io.ReadAll(io.LimitReader(opened, maxImportSize))
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取上传文件失败")
		return
	}

	if err := a.transfer.Import(raw); err != nil {
		if errors.Is(err, service.ErrMalformedImport) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "导入数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "导入成功"})
}
