package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsTestSuite 错误包测试套件
type ErrorsTestSuite struct {
	suite.Suite
}

// 测试创建新错误
func (suite *ErrorsTestSuite) TestNew() {
	// 测试基本错误创建
	err := New(ErrInvalidParam)
	suite.NotNil(err)
	suite.Equal(ErrInvalidParam, err.Code)
	suite.Equal("无效的参数", err.Message)
	suite.Empty(err.Details)

	// 测试带详情的错误
	err = New(ErrGameNotFound, "游戏ID: game123")
	suite.NotNil(err)
	suite.Equal(ErrGameNotFound, err.Code)
	suite.Equal("游戏不存在", err.Message)
	suite.Equal("游戏ID: game123", err.Details)

	// 测试多个详情
	err = New(ErrDatabaseConnect, "连接失败", "主机: localhost", "端口: 5432")
	suite.Equal("连接失败; 主机: localhost; 端口: 5432", err.Details)
}

// 测试格式化错误创建
func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrInvalidParam, "参数 %s 的值 %d 无效", "round", -1)
	suite.NotNil(err)
	suite.Equal(ErrInvalidParam, err.Code)
	suite.Equal("参数 round 的值 -1 无效", err.Details)
}

// 测试错误包装
func (suite *ErrorsTestSuite) TestWrap() {
	// 包装标准错误
	originalErr := errors.New("原始错误")
	wrappedErr := Wrap(originalErr, ErrDatabaseQuery)
	suite.NotNil(wrappedErr)
	suite.Equal(ErrDatabaseQuery, wrappedErr.Code)
	suite.Equal("原始错误", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)

	// 包装nil错误
	nilErr := Wrap(nil, ErrUnknown)
	suite.Nil(nilErr)

	// 包装已有的AppError
	appErr := New(ErrGameNotFound, "文档不存在")
	wrappedAppErr := Wrap(appErr, ErrInvalidParam, "额外信息")
	suite.Equal(ErrGameNotFound, wrappedAppErr.Code) // 保留原始错误码
	suite.Contains(wrappedAppErr.Details, "额外信息")
}

// 测试格式化错误包装
func (suite *ErrorsTestSuite) TestWrapf() {
	originalErr := errors.New("连接超时")
	wrappedErr := Wrapf(originalErr, ErrDatabaseConnect, "数据库 %s 连接失败", "postgres")
	suite.NotNil(wrappedErr)
	suite.Equal(ErrDatabaseConnect, wrappedErr.Code)
	suite.Equal("数据库 postgres 连接失败", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)
}

// 测试错误码判断
func (suite *ErrorsTestSuite) TestIs() {
	err := New(ErrEmptyUpdate)
	suite.True(Is(err, ErrEmptyUpdate))
	suite.False(Is(err, ErrNotFound))
	suite.False(Is(nil, ErrEmptyUpdate))

	// 测试标准错误
	standardErr := errors.New("标准错误")
	suite.False(Is(standardErr, ErrUnknown))
}

// 测试获取错误码
func (suite *ErrorsTestSuite) TestGetCode() {
	// AppError
	appErr := New(ErrTokenExpired)
	suite.Equal(ErrTokenExpired, GetCode(appErr))

	// 标准错误
	standardErr := errors.New("标准错误")
	suite.Equal(ErrUnknown, GetCode(standardErr))

	// nil错误
	suite.Equal(ErrorCode(0), GetCode(nil))
}

// 测试错误消息
func (suite *ErrorsTestSuite) TestError() {
	// 只有消息
	err := &AppError{
		Code:    ErrNotFound,
		Message: "资源未找到",
	}
	suite.Equal("[1002] 资源未找到", err.Error())

	// 有详情
	err.Details = "游戏ID: game123"
	suite.Equal("[1002] 资源未找到: 游戏ID: game123", err.Error())
}

// 测试Unwrap
func (suite *ErrorsTestSuite) TestUnwrap() {
	originalErr := errors.New("原始错误")
	wrappedErr := Wrap(originalErr, ErrUnknown)
	suite.Equal(originalErr, wrappedErr.Unwrap())

	// 没有原因的错误
	err := New(ErrUnknown)
	suite.Nil(err.Unwrap())
}

// 测试WithDetails
func (suite *ErrorsTestSuite) TestWithDetails() {
	err := New(ErrInvalidParam)
	err.WithDetails("参数不能为空")
	suite.Equal("参数不能为空", err.Details)
}

// 测试WithCause
func (suite *ErrorsTestSuite) TestWithCause() {
	err := New(ErrDatabaseQuery)
	cause := errors.New("SQL语法错误")
	err.WithCause(cause)
	suite.Equal(cause, err.Cause)
	suite.Equal("SQL语法错误", err.Details)

	// 已有Details的情况
	err2 := New(ErrDatabaseQuery, "查询失败")
	err2.WithCause(cause)
	suite.Equal(cause, err2.Cause)
	suite.Equal("查询失败", err2.Details) // 保留原有Details
}

// 测试HTTP状态码映射
func (suite *ErrorsTestSuite) TestHTTPStatus() {
	testCases := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrInvalidParam, 400},
		{ErrEmptyUpdate, 400},
		{ErrInvalidGameID, 400},
		{ErrInvalidDocument, 400},
		{ErrInvalidCategory, 400},
		{ErrNotFound, 404},
		{ErrGameNotFound, 404},
		{ErrMethodNotAllowed, 405},
		{ErrPermissionDenied, 403},
		{ErrTimeout, 408},
		{ErrAuthentication, 401},
		{ErrTokenInvalid, 401},
		{ErrDatabaseConnect, 500},
		{ErrDatabaseUpdate, 500},
		{ErrUnknown, 500},
	}

	for _, tc := range testCases {
		err := New(tc.code)
		suite.Equal(tc.expected, err.HTTPStatus(), "错误码 %d 应该返回HTTP状态码 %d", tc.code, tc.expected)
	}
}

// 测试严重错误判断
func (suite *ErrorsTestSuite) TestIsCritical() {
	criticalErrors := []ErrorCode{
		ErrDatabaseConnect,
		ErrConfigLoad,
	}

	for _, code := range criticalErrors {
		err := New(code)
		suite.True(IsCritical(err), "错误码 %d 应该是严重错误", code)
	}

	// 非严重错误
	nonCriticalErrors := []ErrorCode{
		ErrInvalidParam,
		ErrNotFound,
		ErrTimeout,
	}

	for _, code := range nonCriticalErrors {
		err := New(code)
		suite.False(IsCritical(err), "错误码 %d 不应该是严重错误", code)
	}

	// nil错误
	suite.False(IsCritical(nil))
}

// 测试调用栈捕获
func (suite *ErrorsTestSuite) TestStackCapture() {
	err := New(ErrUnknown)
	suite.NotNil(err.Stack)
	suite.Greater(len(err.Stack), 0)

	// 获取格式化的调用栈
	stackStr := err.GetStack()
	suite.NotEmpty(stackStr)
}

// 测试错误响应
func (suite *ErrorsTestSuite) TestErrorResponse() {
	err := New(ErrGameNotFound, "游戏不存在")
	response := NewErrorResponse(err, "req-123")

	suite.False(response.Success)
	suite.Equal(err, response.Error)
	suite.Equal("req-123", response.RequestID)
	suite.Greater(response.Timestamp, int64(0))
}

// 测试未知错误码
func (suite *ErrorsTestSuite) TestUnknownErrorCode() {
	// 使用未定义的错误码
	err := New(ErrorCode(99999))
	suite.Equal(ErrorCode(99999), err.Code)
	suite.Equal("未知错误", err.Message) // 应该使用默认消息
}

// 测试游戏文档相关错误
func (suite *ErrorsTestSuite) TestGameErrors() {
	gameErrors := map[ErrorCode]string{
		ErrGameNotFound:    "游戏不存在",
		ErrInvalidGameID:   "无效的游戏ID",
		ErrEmptyUpdate:     "更新载荷不能为空",
		ErrInvalidDocument: "无效的游戏文档",
		ErrInvalidCategory: "无效的分类参数",
	}

	for code, expectedMsg := range gameErrors {
		err := New(code)
		suite.Equal(expectedMsg, err.Message)
	}
}

// 测试数据库相关错误
func (suite *ErrorsTestSuite) TestDatabaseErrors() {
	dbErrors := map[ErrorCode]string{
		ErrDatabaseConnect: "数据库连接失败",
		ErrDatabaseQuery:   "数据库查询失败",
		ErrDatabaseInsert:  "数据库插入失败",
		ErrDatabaseUpdate:  "数据库更新失败",
		ErrTransaction:     "事务处理失败",
	}

	for code, expectedMsg := range dbErrors {
		err := New(code)
		suite.Equal(expectedMsg, err.Message)
	}
}

// 测试安全相关错误
func (suite *ErrorsTestSuite) TestSecurityErrors() {
	securityErrors := map[ErrorCode]string{
		ErrAuthentication: "认证失败",
		ErrTokenExpired:   "令牌已过期",
		ErrTokenInvalid:   "无效的令牌",
	}

	for code, expectedMsg := range securityErrors {
		err := New(code)
		suite.Equal(expectedMsg, err.Message)
	}
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
