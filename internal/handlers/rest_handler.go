package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"marketChat/internal/errs"
	"marketChat/internal/models"
	"marketChat/internal/msgs"
	"marketChat/internal/services"
	"marketChat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RestHandler struct {
	authService        *services.AuthenticationService
	chatService        *services.ChatService
	fileManagerService *services.FileManagerService
}

func NewRestHandler(
	authService *services.AuthenticationService,
	chatService *services.ChatService,
	fileManagerService *services.FileManagerService,
) *RestHandler {
	return &RestHandler{
		authService:        authService,
		chatService:        chatService,
		fileManagerService: fileManagerService,
	}
}

// statusForErrors maps the error taxonomy onto HTTP statuses: not-found
// resources are 404, boundary violations are 403, everything the caller can
// fix is 400, the rest is a generic 500.
func statusForErrors(errorList []error) int {
	for _, err := range errorList {
		switch {
		case errors.Is(err, errs.ErrConversationNotFound),
			errors.Is(err, errs.ErrMessageNotFound),
			errors.Is(err, errs.ErrUserNotFound):
			return http.StatusNotFound
		case errors.Is(err, errs.ErrNotParticipant),
			errors.Is(err, errs.ErrSelfConversation),
			errors.Is(err, errs.ErrMessagesDisabled),
			errors.Is(err, errs.ErrWrongDeleteScope):
			return http.StatusForbidden
		case errors.Is(err, errs.ErrUnauthorized):
			return http.StatusUnauthorized
		}
		var appErr errs.Error
		if errors.As(err, &appErr) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func abortWithErrors(ctx *gin.Context, errorList []error) {
	ctx.AbortWithStatusJSON(statusForErrors(errorList), models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  errorList,
	})
}

func paginationFromQuery(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.Query("size"))
	if err != nil || size < 1 {
		size = 10
	}
	return page, size
}

func uintParam(ctx *gin.Context, name string) (uint, error) {
	value, err := strconv.Atoi(ctx.Param(name))
	if err != nil || value < 1 {
		return 0, errs.ErrInvalidParams
	}
	return uint(value), nil
}

// Register godoc
// @Summary      Register a new marketplace account
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /register [post]
func (rh *RestHandler) Register(ctx *gin.Context) {
	var user models.User
	if err := ctx.BindJSON(&user); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	if _, registerErrs := rh.authService.Register(&user); len(registerErrs) > 0 {
		abortWithErrors(ctx, registerErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgUserCreatedSuccessfully,
	})
}

// Login godoc
// @Summary      Login and receive a bearer token
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /login [post]
func (rh *RestHandler) Login(ctx *gin.Context) {
	var loginData models.LoginRequestBody
	if err := ctx.BindJSON(&loginData); err != nil {
		log.Println("Error login data json binding:", err)
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	loginResponse, loginErrs := rh.authService.Login(&loginData)
	if len(loginErrs) > 0 {
		abortWithErrors(ctx, loginErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    loginResponse,
	})
}

func (rh *RestHandler) GetAllUsersWithPagination(ctx *gin.Context) {
	page, size := paginationFromQuery(ctx)

	usersResponse, getErrs := rh.authService.GetAllUsersWithPagination(page, size)
	if len(getErrs) > 0 {
		abortWithErrors(ctx, getErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    usersResponse,
	})
}

// SetAllowMessages toggles whether strangers may open conversations with
// the authenticated user.
func (rh *RestHandler) SetAllowMessages(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)

	var body struct {
		Allow bool `json:"allow"`
	}
	if err := ctx.BindJSON(&body); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	if err := rh.authService.SetAllowMessages(userID, body.Allow); err != nil {
		abortWithErrors(ctx, []error{err})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
	})
}

// GetUserConversations godoc
// @Summary      List the authenticated user's conversations
// @Produce      json
// @Success      200  {object}  models.Response
// @Router       /conversations [get]
func (rh *RestHandler) GetUserConversations(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	page, size := paginationFromQuery(ctx)

	conversationsResponse, listErrs := rh.chatService.GetUserConversations(userID, page, size)
	if len(listErrs) > 0 {
		abortWithErrors(ctx, listErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversationsResponse,
	})
}

// StartConversation godoc
// @Summary      Open (or reuse) the conversation with a user and send the first message
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Router       /conversations [post]
func (rh *RestHandler) StartConversation(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)

	var body models.StartConversationRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	startResponse, startErrs := rh.chatService.StartConversation(userID, body.ReceiverID, body.Content)
	if len(startErrs) > 0 {
		abortWithErrors(ctx, startErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    startResponse,
	})
}

func (rh *RestHandler) GetConversation(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	conversationID, err := uintParam(ctx, "id")
	if err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidConversationId})
		return
	}

	conversation, convErrs := rh.chatService.GetConversation(conversationID, userID)
	if len(convErrs) > 0 {
		abortWithErrors(ctx, convErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversation,
	})
}

// GetMessagesByConversationID pages backward from the newest message; each
// page arrives oldest-first, ready for chronological rendering.
func (rh *RestHandler) GetMessagesByConversationID(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	conversationID, err := uintParam(ctx, "id")
	if err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidConversationId})
		return
	}
	page, size := paginationFromQuery(ctx)

	messages, listErrs := rh.chatService.GetMessages(conversationID, userID, page, size)
	if len(listErrs) > 0 {
		abortWithErrors(ctx, listErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    messages,
	})
}

// SendMessage godoc
// @Summary      Send a message into an existing conversation
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Router       /messages [post]
func (rh *RestHandler) SendMessage(ctx *gin.Context) {
	senderID := utils.GetUserIdFromContext(ctx)

	var messageRequest models.MessageRequest
	if err := ctx.ShouldBindJSON(&messageRequest); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	message, sendErrs := rh.chatService.SendMessage(
		messageRequest.ConversationID,
		senderID,
		messageRequest.Content,
		messageRequest.AttachmentURL,
		messageRequest.AttachmentType,
	)
	if len(sendErrs) > 0 {
		abortWithErrors(ctx, sendErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    message,
	})
}

func (rh *RestHandler) MarkConversationRead(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	conversationID, err := uintParam(ctx, "id")
	if err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidConversationId})
		return
	}

	if markErrs := rh.chatService.MarkConversationRead(conversationID, userID); len(markErrs) > 0 {
		abortWithErrors(ctx, markErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgConversationMarkedRead,
	})
}

func (rh *RestHandler) DeleteMessage(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	messageID, err := uintParam(ctx, "id")
	if err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidMessageId})
		return
	}
	scope := ctx.DefaultQuery("scope", "both")

	if deleteErrs := rh.chatService.DeleteMessage(messageID, userID, scope); len(deleteErrs) > 0 {
		abortWithErrors(ctx, deleteErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgMessageDeleted,
	})
}

func (rh *RestHandler) DeleteConversation(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	conversationID, err := uintParam(ctx, "id")
	if err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidConversationId})
		return
	}

	if deleteErrs := rh.chatService.DeleteConversation(conversationID, userID); len(deleteErrs) > 0 {
		abortWithErrors(ctx, deleteErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgConversationDeleted,
	})
}

// GetUnreadTotal sums the user's unread counters over their conversations.
func (rh *RestHandler) GetUnreadTotal(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)

	total, totalErrs := rh.chatService.GetUnreadTotal(userID)
	if len(totalErrs) > 0 {
		abortWithErrors(ctx, totalErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    gin.H{"unread_total": total},
	})
}

// UploadMessageAttachment stores the file in object storage and returns the
// URL to reference from a subsequent send.
func (rh *RestHandler) UploadMessageAttachment(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)

	file, err := ctx.FormFile("attachment")
	if err != nil {
		abortWithErrors(ctx, []error{errs.ErrNoFileUploaded})
		return
	}

	src, err := file.Open()
	if err != nil {
		abortWithErrors(ctx, []error{errs.ErrUnableToOpenUploadedFile})
		return
	}
	defer src.Close()

	fileExt := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("attachment_%v_%s%s", userID, uuid.NewString(), fileExt)

	url, err := rh.fileManagerService.UploadMessageAttachment(fileName, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		abortWithErrors(ctx, []error{errs.ErrUnableToUploadFile})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    gin.H{"attachment_url": url},
	})
}
